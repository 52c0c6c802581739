// Package pinball implements the Round Scheduler and the Pinball
// predecoder: a nine-stage fixed-latency pipeline that consumes one
// syndrome round at a time and emits a block correction, a complex flag,
// and the residual syndromes once d rounds have been fed.
package pinball

import (
	"context"
	"fmt"

	"github.com/latticeforge/pinball/internal/geometry"
	"github.com/latticeforge/pinball/internal/grid"
	"github.com/latticeforge/pinball/internal/protoerr"
	"github.com/latticeforge/pinball/internal/stage"
)

// RoundResult is the incremental output of decoding a single round: the
// correction mask this round contributed, the post-pipeline syndrome that
// becomes next round's PrevRound, and whether this round's processing
// raised the complex flag.
type RoundResult struct {
	CorrectionDelta *grid.Bits
	NextPrev        *grid.Bits
	ComplexDelta    bool
}

// BlockResult is the output of decoding a full d-round block.
type BlockResult struct {
	Correction *grid.Bits // d x d
	Complex    bool
	Residual   *grid.Bits // R x C, every round's unresolved leftover bits OR-ed together
}

// Scheduler drives the nine-stage pipeline across a block of d rounds. It
// owns PrevRound, the round counter, BlockCorrection, and ComplexFlag; none
// of this state is shared across scheduler instances, matching the
// single-threaded-per-shot concurrency model.
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

// Reset clears PrevRound, BlockCorrection, ComplexFlag, the residual
// accumulator, and the round counter, starting a fresh block.
func (s *Scheduler) Reset() {
	s.prevRound.Zero()
	s.blockCorrection.Zero()
	s.residualAccum.Zero()
	s.complexFlag = false
	s.roundCounter = 0
}

// DecodeRound feeds one round's syndrome bits (row-major, length R*C)
// through stages 1-8 against PrevRound, then stage 9 against PrevRound, and
// on the final round of the block also the final-round edge mirror against
// the current round. It returns this round's incremental contribution and
// advances the scheduler's internal state.
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
	delta := grid.New(s.cat.D, s.cat.D)

	stage.ApplyMeasurementErrors(s.cat.Stage1(), curr, s.prevRound)
	stage.ApplyBulk(s.cat.Stage2(), curr, delta)
	stage.ApplyBulk(s.cat.Stage3(), curr, delta)
	stage.ApplyBulk(s.cat.Stage4(), curr, delta)
	stage.ApplyBulk(s.cat.Stage5(), curr, delta)
	stage.ApplySpacetime(s.cat.Stage6(), curr, s.prevRound, delta)
	stage.ApplySpacetime(s.cat.Stage7(), curr, s.prevRound, delta)
	stage.ApplyHook(s.cat.Stage8(), curr, s.prevRound, delta)

	stage.ApplyEdge(s.cat.Stage9(), s.prevRound, delta)
	complexDelta := s.prevRound.Any()
	s.residualAccum.OR(s.prevRound)

	isFinalRound := roundIdx == s.cat.D-1
	if isFinalRound {
		stage.ApplyEdge(s.cat.Stage9(), curr, delta)
		if curr.Any() {
			complexDelta = true
		}
		s.residualAccum.OR(curr)
	}

	s.blockCorrection.XOR(delta)
	if complexDelta {
		s.complexFlag = true
	}

	s.prevRound = curr
	s.roundCounter++

	return RoundResult{CorrectionDelta: delta, NextPrev: curr, ComplexDelta: complexDelta}, nil
}

// DecodeBatch feeds exactly d rounds (rounds[i] is round i's flat bit
// vector) through the scheduler and returns the block result. It resets the
// scheduler first, so a single Scheduler can decode consecutive blocks.
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
