// Package leaf implements the two-bit AND-and-clear primitive shared by
// every stage of the pipeline.
package leaf

// Result is the outcome of firing a leaf decoder over one ancilla pair.
type Result struct {
	// Fired is 1 when both inputs were set, 0 otherwise.
	Fired byte
	// CenterOut and NeighborOut are the post-correction ancilla values.
	CenterOut, NeighborOut byte
}

// Decode applies the leaf primitive: it fires exactly when both center and
// neighbor are set, and clears both inputs when it fires.
//
//	correction = center AND neighbor
//	center_out = center XOR correction
//	neighbor_out = neighbor XOR correction
func Decode(center, neighbor byte) Result {
	correction := center & neighbor & 1
	return Result{
		Fired:       correction,
		CenterOut:   (center & 1) ^ correction,
		NeighborOut: (neighbor & 1) ^ correction,
	}
}

// Idempotent reports whether re-applying Decode to the outputs of
// Decode(center, neighbor) leaves the leaf silent (does not fire again).
// Used by the P1 property test: a leaf must never re-fire its own output.
func Idempotent(center, neighbor byte) bool {
	first := Decode(center, neighbor)
	second := Decode(first.CenterOut, first.NeighborOut)
	return second.Fired == 0
}
