// Package clique implements the Clique variant: a single-stage local
// predecoder that, for each ancilla, examines its four spatial/temporal
// neighbors (top-right, bottom-right, bottom-left, top-left) between the
// current and previous round and applies the implied data-qubit correction
// when exactly one (or, per the literal tie-breaking rule below, any odd
// count of) neighbor is also flipped.
//
// Clique has no multi-stage pipeline; it shares the Pinball predecoder's
// public interface (decode/decode_batch/is_logical_error) but is a single
// pass over the lattice per round pair.
package clique

import (
	"context"
	"fmt"

	"github.com/latticeforge/pinball/internal/geometry"
	"github.com/latticeforge/pinball/internal/grid"
	"github.com/latticeforge/pinball/internal/protoerr"
)

// RoundResult is the per-round output of the Clique decoder.
type RoundResult struct {
	CorrectionDelta *grid.Bits
	ComplexDelta    bool
}

// BlockResult is the output of decoding a full d-round block.
type BlockResult struct {
	Correction *grid.Bits
	Complex    bool
	Residual   *grid.Bits
}

// Scheduler drives the Clique predecoder across a block of d rounds. Unlike
// Pinball's scheduler, Clique's decode step never mutates the syndrome
// arrays it is handed (the source computes a virtual, measurement-error
// filtered center value on the fly rather than clearing bits in place); the
// Scheduler only tracks the previous round's raw bits, the round counter,
// and the accumulators.
type Scheduler struct {
	cat *geometry.Catalog

	prevRound       *grid.Bits
	blockCorrection *grid.Bits
	residualAccum   *grid.Bits
	complexFlag     bool
	roundCounter    int
}

// New constructs a Scheduler for code distance d.
func New(d int) (*Scheduler, error) {
	cat, err := geometry.For(d)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		cat:             cat,
		prevRound:       grid.New(cat.R, cat.C),
		blockCorrection: grid.New(d, d),
		residualAccum:   grid.New(cat.R, cat.C),
	}, nil
}

// Distance returns the code distance this scheduler was built for.
func (s *Scheduler) Distance() int { return s.cat.D }

// Reset clears all per-block state, starting a fresh block.
func (s *Scheduler) Reset() {
	s.prevRound.Zero()
	s.blockCorrection.Zero()
	s.residualAccum.Zero()
	s.complexFlag = false
	s.roundCounter = 0
}

// cliqueLeaf is one of an ancilla's four neighbors together with the data
// qubit a joint firing with it would imply a flip on. cliqueLeaves computes
// all four for ancilla (i,j), following predecoders.py's Clique.decode
// literally.
type cliqueLeaf struct {
	row, col         int
	dataRow, dataCol int
}

func cliqueLeaves(i, j, d int) (tr, br, bl, tl cliqueLeaf) {
	im2 := i % 2
	tr = cliqueLeaf{row: i - 1, col: j + 1 - im2, dataRow: i - 1, dataCol: 2*(j+1) - im2}
	br = cliqueLeaf{row: i + 1, col: j + 1 - im2, dataRow: i, dataCol: 2*(j+1) - im2}
	bl = cliqueLeaf{row: i + 1, col: j - im2, dataRow: i, dataCol: 2*(j+1) - im2 - 1}
	tl = cliqueLeaf{row: i - 1, col: j - im2, dataRow: i - 1, dataCol: 2*(j+1) - im2 - 1}
	return
}

// decode runs Clique's per-ancilla-cell decoding rule over one round pair.
// It returns the round's correction mask and whether it hit a non-edge
// ambiguous clique (the literal source returns immediately at the first
// such cell, leaving every subsequent cell in the round unexamined — this
// early exit is reproduced verbatim rather than "fixed", per the source's
// documented behavior).
func decode(cat *geometry.Catalog, prev, curr *grid.Bits) (corr *grid.Bits, isComplex bool, residual *grid.Bits) {
	d := cat.D
	corr = grid.New(d, d)
	residual = curr.Clone()

	center := func(i, j int) byte {
		return (1 ^ prev.Get(i, j)) & curr.Get(i, j)
	}
	// neighborValue mirrors the source's out-of-bounds sentinel (-1, never
	// equal to 1) by returning 2 for an out-of-bounds ancilla.
	neighborValue := func(row, col int) byte {
		if !prev.In(row, col) {
			return 2
		}
		return (1 ^ prev.Get(row, col)) & curr.Get(row, col)
	}

	for i := 0; i < cat.R; i++ {
		for j := 0; j < cat.C; j++ {
			if center(i, j) != 1 {
				continue
			}
			tr, br, bl, tl := cliqueLeaves(i, j, d)
			trVal := neighborValue(tr.row, tr.col)
			brVal := neighborValue(br.row, br.col)
			blVal := neighborValue(bl.row, bl.col)
			tlVal := neighborValue(tl.row, tl.col)

			count := 0
			if trVal == 1 {
				count++
			}
			if brVal == 1 {
				count++
			}
			if blVal == 1 {
				count++
			}
			if tlVal == 1 {
				count++
			}

			if count%2 == 0 {
				isEdge := (i%2 == 0 && j == cat.C-1) || (i%2 == 1 && j == 0)
				if !isEdge {
					return corr, true, residual
				}
				row := i
				if i >= cat.R-1 {
					row = i - 1
				}
				col := 0
				if j != 0 {
					col = d - 1
				}
				corr.Set(row, col, 1)
				residual.Set(i, j, 0)
				continue
			}

			if trVal == 1 {
				corr.Set(tr.dataRow, tr.dataCol, 1)
			}
			if brVal == 1 {
				corr.Set(br.dataRow, br.dataCol, 1)
			}
			if blVal == 1 {
				corr.Set(bl.dataRow, bl.dataCol, 1)
			}
			if tlVal == 1 {
				corr.Set(tl.dataRow, tl.dataCol, 1)
			}
			residual.Set(i, j, 0)
		}
	}
	return corr, false, residual
}

// DecodeRound feeds one round's syndrome bits through the Clique rule
// against PrevRound, advancing the scheduler's internal state.
func (s *Scheduler) DecodeRound(ctx context.Context, roundIdx int, bits []byte) (RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return RoundResult{}, err
	}
	if roundIdx != s.roundCounter {
		return RoundResult{}, protoerr.Wrap(fmt.Errorf("%w: expected %d, got %d", protoerr.ErrOutOfOrderRound, s.roundCounter, roundIdx))
	}
	if len(bits) != s.cat.R*s.cat.C {
		return RoundResult{}, fmt.Errorf("%w: expected %d bits, got %d", protoerr.ErrShapeMismatch, s.cat.R*s.cat.C, len(bits))
	}

	curr := grid.FromFlat(s.cat.R, s.cat.C, append([]byte(nil), bits...))
	delta, complexDelta, residual := decode(s.cat, s.prevRound, curr)

	s.blockCorrection.XOR(delta)
	if complexDelta {
		s.complexFlag = true
	}
	s.residualAccum.OR(residual)

	s.prevRound = curr
	s.roundCounter++

	return RoundResult{CorrectionDelta: delta, ComplexDelta: complexDelta}, nil
}

// DecodeBatch feeds exactly d rounds through the scheduler and returns the
// block result, matching Predecoder.decode_batch's base-class accounting:
// batch_complex is true if any round's decode() hit the ambiguous-clique
// exit.
func (s *Scheduler) DecodeBatch(ctx context.Context, rounds [][]byte) (BlockResult, error) {
	if len(rounds) != s.cat.D {
		return BlockResult{}, fmt.Errorf("%w: expected %d rounds, got %d", protoerr.ErrShapeMismatch, s.cat.D, len(rounds))
	}
	s.Reset()

	for i, bits := range rounds {
		if _, err := s.DecodeRound(ctx, i, bits); err != nil {
			return BlockResult{}, err
		}
	}

	return BlockResult{
		Correction: s.blockCorrection.Clone(),
		Complex:    s.complexFlag,
		Residual:   s.residualAccum.Clone(),
	}, nil
}
