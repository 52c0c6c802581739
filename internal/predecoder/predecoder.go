// Package predecoder is the public façade of §4.6: a single interface
// covering both the Pinball and Clique variants, a tagged-variant
// constructor replacing the source's dynamic class dispatch, and the
// logical-error check shared by both.
package predecoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/latticeforge/pinball/internal/clique"
	"github.com/latticeforge/pinball/internal/grid"
	"github.com/latticeforge/pinball/internal/pinball"
)

// Variant names one of the two predecoder implementations that satisfy
// the Decoder interface. Extensibility comes from adding a new Variant and
// a New case, not from a deeper interface hierarchy.
type Variant string

const (
	Pinball Variant = "pinball"
	Clique  Variant = "clique"
)

// ErrUnknownVariant is returned by New for any Variant other than Pinball
// or Clique.
var ErrUnknownVariant = errors.New("predecoder: unknown variant")

// BlockResult is the shape every variant's DecodeBatch returns: the
// accumulated data-qubit correction mask, the complex flag, and the
// residual syndromes per spec.md §6's "Decode output shape".
type BlockResult struct {
	Correction *grid.Bits
	Complex    bool
	Residual   *grid.Bits
}

// Decoder is the shared interface implemented by both Pinball's Scheduler
// and Clique's Scheduler.
type Decoder interface {
	// Distance returns the code distance this decoder was constructed for.
	Distance() int
	// DecodeRound feeds one round's syndrome bits through the decoder.
	DecodeRound(ctx context.Context, roundIdx int, bits []byte) error
	// DecodeBatch feeds exactly Distance() rounds through the decoder and
	// returns the block result, resetting internal state first.
	DecodeBatch(ctx context.Context, rounds [][]byte) (BlockResult, error)
	// Reset clears all per-block state, starting a fresh block.
	Reset()
}

// New constructs a Decoder for the given variant and code distance.
func New(v Variant, d int) (Decoder, error) {
	switch v {
	case Pinball:
		s, err := pinball.New(d)
		if err != nil {
			return nil, err
		}
		return pinballAdapter{s}, nil
	case Clique:
		s, err := clique.New(d)
		if err != nil {
			return nil, err
		}
		return cliqueAdapter{s}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

type pinballAdapter struct{ s *pinball.Scheduler }

func (a pinballAdapter) Distance() int { return a.s.Distance() }
func (a pinballAdapter) Reset()        { a.s.Reset() }

func (a pinballAdapter) DecodeRound(ctx context.Context, roundIdx int, bits []byte) error {
	_, err := a.s.DecodeRound(ctx, roundIdx, bits)
	return err
}

func (a pinballAdapter) DecodeBatch(ctx context.Context, rounds [][]byte) (BlockResult, error) {
	res, err := a.s.DecodeBatch(ctx, rounds)
	if err != nil {
		return BlockResult{}, err
	}
	return BlockResult{Correction: res.Correction, Complex: res.Complex, Residual: res.Residual}, nil
}

type cliqueAdapter struct{ s *clique.Scheduler }

func (a cliqueAdapter) Distance() int { return a.s.Distance() }
func (a cliqueAdapter) Reset()        { a.s.Reset() }

func (a cliqueAdapter) DecodeRound(ctx context.Context, roundIdx int, bits []byte) error {
	_, err := a.s.DecodeRound(ctx, roundIdx, bits)
	return err
}

func (a cliqueAdapter) DecodeBatch(ctx context.Context, rounds [][]byte) (BlockResult, error) {
	res, err := a.s.DecodeBatch(ctx, rounds)
	if err != nil {
		return BlockResult{}, err
	}
	return BlockResult{Correction: res.Correction, Complex: res.Complex, Residual: res.Residual}, nil
}

// IsLogicalError reports whether the block correction, combined with the
// Stim circuit's observable-flip outcome, produced a logical error. Both
// variants share this check: it depends only on the external
// error-to-data-qubit map's consequence (the sampled observable flip), not
// on either variant's stage internals.
func IsLogicalError(correction *grid.Bits, observableFlip bool) bool {
	return pinball.IsLogicalError(correction, observableFlip)
}
