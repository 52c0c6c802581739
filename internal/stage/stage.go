// Package stage implements the nine pipeline stage kernels. Each kernel
// walks a geometry.Catalog's adjacency pairs. Kernels are not pure: each one
// updates the syndrome grids it is given in place (clearing explained
// ancillas, per invariant I3) and accumulates into the correction mask it
// is given; none returns new arrays. Kernels never allocate their own
// geometry; callers own and clone the grids passed in.
package stage

import (
	"github.com/latticeforge/pinball/internal/geometry"
	"github.com/latticeforge/pinball/internal/grid"
	"github.com/latticeforge/pinball/internal/leaf"
)

// ApplyMeasurementErrors runs stage 1: AND-clear between the same ancilla
// cell across the current and previous round. No data qubit is touched.
func ApplyMeasurementErrors(pairs []geometry.Pair, curr, prev *grid.Bits) {
	for _, p := range pairs {
		result := leaf.Decode(curr.Get(p.CenterRow, p.CenterCol), prev.Get(p.NeighborRow, p.NeighborCol))
		curr.Set(p.CenterRow, p.CenterCol, result.CenterOut)
		prev.Set(p.NeighborRow, p.NeighborCol, result.NeighborOut)
	}
}

// ApplyBulk runs one of stages 2-5: both the center and the neighbor
// ancilla are read from the same round's syndrome grid. Every leaf firing is
// accumulated into corr via XOR.
func ApplyBulk(pairs []geometry.Pair, syndrome *grid.Bits, corr *grid.Bits) {
	for _, p := range pairs {
		result := leaf.Decode(syndrome.Get(p.CenterRow, p.CenterCol), syndrome.Get(p.NeighborRow, p.NeighborCol))
		if result.Fired == 0 {
			continue
		}
		syndrome.Set(p.CenterRow, p.CenterCol, result.CenterOut)
		syndrome.Set(p.NeighborRow, p.NeighborCol, result.NeighborOut)
		corr.Set(p.DataRow, p.DataCol, corr.Get(p.DataRow, p.DataCol)^1)
	}
}

// ApplySpacetime runs one of stages 6-7: the center ancilla is read from
// the current round and the neighbor from the previous round.
func ApplySpacetime(pairs []geometry.Pair, curr, prev *grid.Bits, corr *grid.Bits) {
	for _, p := range pairs {
		result := leaf.Decode(curr.Get(p.CenterRow, p.CenterCol), prev.Get(p.NeighborRow, p.NeighborCol))
		if result.Fired == 0 {
			continue
		}
		curr.Set(p.CenterRow, p.CenterCol, result.CenterOut)
		prev.Set(p.NeighborRow, p.NeighborCol, result.NeighborOut)
		corr.Set(p.DataRow, p.DataCol, corr.Get(p.DataRow, p.DataCol)^1)
	}
}

// ApplyHook runs stage 8: the center ancilla is read from the current
// round, the neighbor (row distance 2) from the previous round, and a
// firing flips two vertically adjacent data qubits simultaneously.
func ApplyHook(pairs []geometry.Pair, curr, prev *grid.Bits, corr *grid.Bits) {
	for _, p := range pairs {
		result := leaf.Decode(curr.Get(p.CenterRow, p.CenterCol), prev.Get(p.NeighborRow, p.NeighborCol))
		curr.Set(p.CenterRow, p.CenterCol, result.CenterOut)
		prev.Set(p.NeighborRow, p.NeighborCol, result.NeighborOut)
		if result.Fired == 0 {
			continue
		}
		corr.Set(p.DataRow, p.DataCol, corr.Get(p.DataRow, p.DataCol)^1)
		corr.Set(p.DataRow2, p.DataCol2, corr.Get(p.DataRow2, p.DataCol2)^1)
	}
}

// ApplyEdge runs stage 9 (or the final-round mirror of it) against a single
// syndrome grid: the neighbor is an artificial always-1 boundary ancilla, so
// a firing depends only on the center ancilla's value.
func ApplyEdge(pairs []geometry.Pair, syndrome *grid.Bits, corr *grid.Bits) {
	for _, p := range pairs {
		result := leaf.Decode(syndrome.Get(p.CenterRow, p.CenterCol), 1)
		if result.Fired == 0 {
			continue
		}
		syndrome.Set(p.CenterRow, p.CenterCol, result.CenterOut)
		corr.Set(p.DataRow, p.DataCol, corr.Get(p.DataRow, p.DataCol)^1)
	}
}
