package harness

import (
	"context"
	"math/rand"

	"github.com/latticeforge/pinball/internal/geometry"
)

// SyntheticShotSource generates pseudo-random syndrome shots for local
// testing and for the sweep command's default wiring, grounded on
// grid.FillRand's seeded-PRNG-for-reproducibility pattern. It is not a
// circuit simulator: bits are drawn i.i.d. with probability P per round,
// which approximates but does not reproduce a real Stim detector error
// model. A production sweep supplies a real ShotSource instead.
type SyntheticShotSource struct {
	cat  *geometry.Catalog
	p    float64
	rng  *rand.Rand
}

// NewSyntheticShotSource builds a source for code distance d, biasing each
// round's syndrome bit toward 1 with probability p, seeded for
// reproducibility.
func NewSyntheticShotSource(d int, p float64, seed int64) (*SyntheticShotSource, error) {
	cat, err := geometry.For(d)
	if err != nil {
		return nil, err
	}
	return &SyntheticShotSource{cat: cat, p: p, rng: rand.New(rand.NewSource(seed))}, nil
}

// Sample draws n independent shots, each d rounds of R*C syndrome bits.
func (s *SyntheticShotSource) Sample(ctx context.Context, n int) (ShotBatch, error) {
	if err := ctx.Err(); err != nil {
		return ShotBatch{}, err
	}
	shots := make([]Shot, n)
	for i := range shots {
		rounds := make([][]byte, s.cat.D)
		anyFired := false
		for r := 0; r < s.cat.D; r++ {
			round := make([]byte, s.cat.R*s.cat.C)
			for j := range round {
				if s.rng.Float64() < s.p {
					round[j] = 1
					anyFired = true
				}
			}
			rounds[r] = round
		}
		var errorIDs []uint32
		if anyFired {
			// A synthetic shot has no real error mechanism ids to report;
			// analysis.BuildFrequencyHistogram simply sees none fired.
			errorIDs = nil
		}
		shots[i] = Shot{
			Rounds:         rounds,
			ErrorIDs:       errorIDs,
			ObservableFlip: anyFired && s.rng.Float64() < s.p,
		}
	}
	return ShotBatch{Shots: shots}, nil
}
