// Package geometry implements the Geometry Catalog: pure functions that,
// given an odd code distance, produce the lattice dimensions and the
// per-stage ancilla-pair adjacency tables the stage kernels apply the leaf
// primitive over. Catalogs are computed once per distance and interned.
package geometry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidDistance is returned when a requested code distance is not an
// odd integer >= 3.
var ErrInvalidDistance = errors.New("geometry: distance must be an odd integer >= 3")

// Pair describes one leaf decoder instance: the ancilla cell it centers on,
// the neighbor ancilla cell it pairs with, and the data qubit(s) a firing
// implies a flip on.
//
// NeighborRow/NeighborCol == BoundaryAncilla marks a stage-9 "always-1"
// artificial boundary ancilla rather than a real lattice neighbor.
// DataRow/DataCol == NoDataQubit marks a pair with no associated data qubit
// (stage 1, measurement-error suppression). DataRow2/DataCol2 are only
// meaningful for width-2 (hook) pairs; NoDataQubit otherwise.
type Pair struct {
	CenterRow, CenterCol     int
	NeighborRow, NeighborCol int
	DataRow, DataCol         int
	DataRow2, DataCol2       int
}

// NoDataQubit marks an absent data-qubit coordinate in a Pair.
const NoDataQubit = -1

// BoundaryAncilla marks a stage-9 artificial always-1 boundary ancilla.
const BoundaryAncilla = -2

// Width reports how many data qubits this pair's firing touches.
func (p Pair) Width() int {
	if p.DataRow == NoDataQubit {
		return 0
	}
	if p.DataRow2 == NoDataQubit {
		return 1
	}
	return 2
}

// Catalog holds every precomputed stage adjacency table for one code
// distance. Catalogs are immutable after construction and safe to share
// read-only across goroutines.
type Catalog struct {
	D int // code distance
	R int // syndrome rows = D+1
	C int // syndrome columns per row = (D-1)/2

	// Stages[0] is stage 1 (measurement error), Stages[8] is stage 9 (edge).
	Stages [9][]Pair
}

var catalogCache sync.Map // map[int]*Catalog

// For returns the interned Catalog for distance d, computing it on first
// use and memoizing it for the process lifetime.
func For(d int) (*Catalog, error) {
	if d < 3 || d%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDistance, d)
	}
	if cached, ok := catalogCache.Load(d); ok {
		return cached.(*Catalog), nil
	}
	cat := build(d)
	actual, _ := catalogCache.LoadOrStore(d, cat)
	return actual.(*Catalog), nil
}

func build(d int) *Catalog {
	r := d + 1
	c := (d - 1) / 2
	cat := &Catalog{D: d, R: r, C: c}
	cat.Stages[0] = buildStage1(r, c)
	cat.Stages[1] = buildBulk(r, c, bulkTopRight)
	cat.Stages[2] = buildBulk(r, c, bulkBottomRight)
	cat.Stages[3] = buildBulk(r, c, bulkBottomLeft)
	cat.Stages[4] = buildBulk(r, c, bulkTopLeft)
	cat.Stages[5] = buildSpacetime(r, c, d, spacetimeTopRight)
	cat.Stages[6] = buildSpacetime(r, c, d, spacetimeTopLeft)
	cat.Stages[7] = buildHook(r, c, d)
	cat.Stages[8] = buildEdge(r, c, d)
	return cat
}

// Stage1 returns the measurement-error suppression pairs: AND-clear between
// the same ancilla cell in the current and previous round.
func (cat *Catalog) Stage1() []Pair { return cat.Stages[0] }

// Stage2 returns the bulk top-right data-error pairs.
func (cat *Catalog) Stage2() []Pair { return cat.Stages[1] }

// Stage3 returns the bulk bottom-right data-error pairs.
func (cat *Catalog) Stage3() []Pair { return cat.Stages[2] }

// Stage4 returns the bulk bottom-left data-error pairs.
func (cat *Catalog) Stage4() []Pair { return cat.Stages[3] }

// Stage5 returns the bulk top-left data-error pairs.
func (cat *Catalog) Stage5() []Pair { return cat.Stages[4] }

// Stage6 returns the spacetime top-right (current vs. previous round) pairs.
func (cat *Catalog) Stage6() []Pair { return cat.Stages[5] }

// Stage7 returns the spacetime top-left (current vs. previous round) pairs.
func (cat *Catalog) Stage7() []Pair { return cat.Stages[6] }

// Stage8 returns the width-2 hook-error pairs (row distance 2).
func (cat *Catalog) Stage8() []Pair { return cat.Stages[7] }

// Stage9 returns the edge/boundary correction pairs. The same rule applies
// whether the caller runs it against PrevRound (every round) or CurrRound
// (the final round of a block).
func (cat *Catalog) Stage9() []Pair { return cat.Stages[8] }

// CorrMask returns a d×d boolean mask: true where the given stage's pairs
// may flip a data qubit. Used by the P2 partition property test.
func (cat *Catalog) CorrMask(stageIdx int) [][]bool {
	mask := make([][]bool, cat.D)
	for i := range mask {
		mask[i] = make([]bool, cat.D)
	}
	for _, p := range cat.Stages[stageIdx] {
		if p.DataRow != NoDataQubit {
			mask[p.DataRow][p.DataCol] = true
		}
		if p.DataRow2 != NoDataQubit {
			mask[p.DataRow2][p.DataCol2] = true
		}
	}
	return mask
}

func inBounds(r, c, rows, cols int) bool {
	return r >= 0 && r < rows && c >= 0 && c < cols
}

func buildStage1(r, c int) []Pair {
	pairs := make([]Pair, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: j,
				NeighborRow: i, NeighborCol: j, // same cell, previous round
				DataRow: NoDataQubit, DataCol: NoDataQubit,
				DataRow2: NoDataQubit, DataCol2: NoDataQubit,
			})
		}
	}
	return pairs
}

type bulkRule func(i, j int) (neighborRow, neighborCol, dataRow, dataCol int)

func bulkTopRight(i, j int) (int, int, int, int)    { return i - 1, j, i - 1, 2*j + 1 }
func bulkBottomRight(i, j int) (int, int, int, int) { return i + 1, j, i, 2*j + 1 }
func bulkBottomLeft(i, j int) (int, int, int, int)  { return i + 1, j - 1, i, 2 * j }
func bulkTopLeft(i, j int) (int, int, int, int)     { return i - 1, j - 1, i - 1, 2 * j }

// buildBulk constructs the stage 2-5 pair lists: odd rows only, neighbor and
// data qubit fixed within the current round's syndrome array.
func buildBulk(r, c int, rule bulkRule) []Pair {
	var pairs []Pair
	for i := 0; i < r; i++ {
		if i%2 == 0 {
			continue
		}
		for j := 0; j < c; j++ {
			nr, nc, dr, dc := rule(i, j)
			if !inBounds(nr, nc, r, c) {
				continue
			}
			d := r - 1
			if !inBounds(dr, dc, d, d) {
				continue
			}
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: j,
				NeighborRow: nr, NeighborCol: nc,
				DataRow: dr, DataCol: dc,
				DataRow2: NoDataQubit, DataCol2: NoDataQubit,
			})
		}
	}
	return pairs
}

type spacetimeRule func(i, j int) (neighborRow, neighborCol, dataRow, dataCol int)

func spacetimeTopRight(i, j int) (int, int, int, int) {
	return i - 1, j + 1 - i%2, i - 1, 2*(j+1) - i%2
}

func spacetimeTopLeft(i, j int) (int, int, int, int) {
	return i - 1, j - i%2, i - 1, 2*(j+1) - i%2 - 1
}

// buildSpacetime constructs the stage 6-7 pair lists: every cell
// participates (no odd-row filter), the neighbor is read from the previous
// round and the data qubit must land within the d×d lattice.
func buildSpacetime(r, c, d int, rule spacetimeRule) []Pair {
	var pairs []Pair
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			nr, nc, dr, dc := rule(i, j)
			if !inBounds(nr, nc, r, c) {
				continue
			}
			if !inBounds(dr, dc, d, d) {
				continue
			}
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: j,
				NeighborRow: nr, NeighborCol: nc,
				DataRow: dr, DataCol: dc,
				DataRow2: NoDataQubit, DataCol2: NoDataQubit,
			})
		}
	}
	return pairs
}

// buildHook constructs the width-2 stage 8 pairs: row-distance-2 ancillas in
// the current vs. previous round, flipping two vertically adjacent data
// qubits simultaneously.
func buildHook(r, c, d int) []Pair {
	var pairs []Pair
	for i := 2; i < r; i++ {
		for j := 0; j < c; j++ {
			col := 2*(j+1) - i%2 - 1
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: j,
				NeighborRow: i - 2, NeighborCol: j,
				DataRow: i - 1, DataCol: col,
				DataRow2: i - 2, DataCol2: col,
			})
		}
	}
	return pairs
}

// buildEdge constructs the stage 9 boundary-correction pairs: the leftmost
// column's odd-row ancillas correct the top-left edge data qubit, and the
// rightmost column's even-row ancillas correct the bottom-right edge data
// qubit. The neighbor is an artificial always-1 boundary ancilla.
func buildEdge(r, c, d int) []Pair {
	var pairs []Pair
	leftCol, rightCol := 0, c-1
	for i := 0; i < r; i++ {
		if i%2 == 1 {
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: leftCol,
				NeighborRow: BoundaryAncilla, NeighborCol: BoundaryAncilla,
				DataRow: i - 1, DataCol: 0,
				DataRow2: NoDataQubit, DataCol2: NoDataQubit,
			})
		}
	}
	for i := 0; i < r; i++ {
		if i%2 == 0 {
			pairs = append(pairs, Pair{
				CenterRow: i, CenterCol: rightCol,
				NeighborRow: BoundaryAncilla, NeighborCol: BoundaryAncilla,
				DataRow: i, DataCol: d - 1,
				DataRow2: NoDataQubit, DataCol2: NoDataQubit,
			})
		}
	}
	return pairs
}
