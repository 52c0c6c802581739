package pinball

import "github.com/latticeforge/pinball/internal/grid"

// IsLogicalError reports whether the block correction, combined with the
// Stim circuit's observable-flip outcome, produced a logical error. The
// X-basis logical observable is the leftmost column of data qubits: if the
// correction's parity there disagrees with the sampled observable flip, a
// logical error occurred.
func IsLogicalError(correction *grid.Bits, observableFlip bool) bool {
	var prediction byte
	for row := 0; row < correction.Rows; row++ {
		prediction ^= correction.Get(row, 0)
	}
	predicted := prediction != 0
	return predicted != observableFlip
}
