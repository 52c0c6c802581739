package pinball

import (
	"context"
	"errors"
	"testing"

	"github.com/latticeforge/pinball/internal/grid"
	"github.com/latticeforge/pinball/internal/protoerr"
)

func flat(r, c int, sets ...[2]int) []byte {
	g := grid.New(r, c)
	for _, rc := range sets {
		g.Set(rc[0], rc[1], 1)
	}
	return g.Data
}

func zeroRounds(n, r, c int) [][]byte {
	rounds := make([][]byte, n)
	for i := range rounds {
		rounds[i] = make([]byte, r*c)
	}
	return rounds
}

func TestDecodeBatch_ZeroInputIsUncomplex(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	res, err := s.DecodeBatch(context.Background(), zeroRounds(3, 4, 1))
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected complex=false for all-zero input")
	}
	if res.Correction.Any() {
		t.Errorf("expected zero block correction for all-zero input")
	}
	if res.Residual.Any() {
		t.Errorf("expected zero residual for all-zero input")
	}
}

func TestDecodeBatch_MeasurementErrorClearsAcrossRounds(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	rounds := zeroRounds(3, 4, 1)
	rounds[0] = flat(4, 1, [2]int{1, 0})
	rounds[1] = flat(4, 1, [2]int{1, 0})

	res, err := s.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected complex=false, a repeated ancilla hit is a measurement error, not residual")
	}
	if res.Correction.Any() {
		t.Errorf("measurement-error suppression touches no data qubit, want zero correction, got %v", res.Correction.Data)
	}
	if res.Residual.Any() {
		t.Errorf("expected zero residual")
	}
}

func TestDecodeBatch_BulkPairProducesCorrection(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	rounds := zeroRounds(3, 4, 1)
	rounds[0] = flat(4, 1, [2]int{1, 0}, [2]int{0, 0})

	res, err := s.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected complex=false, the bulk pair fully explains the round")
	}
	want := grid.New(3, 3)
	want.Set(0, 1, 1)
	if !res.Correction.Equal(want) {
		t.Errorf("correction = %v, want a single flip at (0,1)", res.Correction.Data)
	}
	if res.Residual.Any() {
		t.Errorf("expected zero residual")
	}
}

func TestDecodeBatch_UnpairedDetectorRaisesComplexFlag(t *testing.T) {
	// d=3 degenerates every ancilla column into a lattice edge, so any
	// isolated bit is always explained by the stage-9 boundary trick. Use
	// d=7, which has a genuine interior column, and an isolated bit placed
	// there so nothing in the pipeline ever touches it.
	s, err := New(7)
	if err != nil {
		t.Fatalf("New(7): %v", err)
	}
	if s.cat.C < 3 {
		t.Fatalf("expected an interior syndrome column at d=7, got C=%d", s.cat.C)
	}
	rounds := zeroRounds(7, s.cat.R, s.cat.C)
	rounds[0] = flat(s.cat.R, s.cat.C, [2]int{3, 1})

	res, err := s.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if !res.Complex {
		t.Errorf("expected complex=true, the isolated detector has no explaining partner")
	}
	if res.Correction.Any() {
		t.Errorf("expected zero block correction, no leaf ever fired")
	}
	if !res.Residual.Any() {
		t.Errorf("expected a nonzero residual carrying the unexplained detector")
	}
}

func TestDecodeBatch_SpacetimeDiagonalProducesCorrection(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	rounds := zeroRounds(3, 4, 1)
	rounds[0] = flat(4, 1, [2]int{0, 0})
	rounds[1] = flat(4, 1, [2]int{1, 0})

	res, err := s.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected complex=false, the spacetime pair fully explains the detectors")
	}
	want := grid.New(3, 3)
	want.Set(0, 1, 1)
	if !res.Correction.Equal(want) {
		t.Errorf("correction = %v, want a single flip at (0,1)", res.Correction.Data)
	}
	if res.Residual.Any() {
		t.Errorf("expected zero residual")
	}
}

func TestDecodeBatch_HookPairFlipsTwoDataQubits(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	rounds := zeroRounds(3, 4, 1)
	rounds[0] = flat(4, 1, [2]int{0, 0})
	rounds[1] = flat(4, 1, [2]int{2, 0})

	res, err := s.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected complex=false, the hook pair fully explains the detectors")
	}
	want := grid.New(3, 3)
	want.Set(0, 1, 1)
	want.Set(1, 1, 1)
	if !res.Correction.Equal(want) {
		t.Errorf("correction = %v, want simultaneous flips at (0,1) and (1,1)", res.Correction.Data)
	}
	if res.Residual.Any() {
		t.Errorf("expected zero residual")
	}
}

func TestDecodeBatch_RejectsShapeMismatch(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	rounds := zeroRounds(3, 4, 1)
	rounds[0] = make([]byte, 2)
	if _, err := s.DecodeBatch(context.Background(), rounds); !errors.Is(err, protoerr.ErrShapeMismatch) {
		t.Errorf("DecodeBatch with wrong-length round = %v, want ErrShapeMismatch", err)
	}
}

func TestDecodeRound_RejectsOutOfOrderRound(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	if _, err := s.DecodeRound(context.Background(), 1, flat(4, 1)); !errors.Is(err, protoerr.ErrOutOfOrderRound) {
		t.Errorf("DecodeRound(1, ...) on a fresh scheduler = %v, want ErrOutOfOrderRound", err)
	}
}

// TestResidualImpliesComplexFlag checks P5: a nonzero residual always raises
// the complex flag, and (by construction here) the converse holds too.
func TestResidualImpliesComplexFlag(t *testing.T) {
	d := 5
	s, err := New(d)
	if err != nil {
		t.Fatalf("New(%d): %v", d, err)
	}
	seeds := []int64{1, 2, 3, 42, 1337, 90210}
	for _, seed := range seeds {
		rounds := make([][]byte, d)
		for i := range rounds {
			g := grid.New(s.cat.R, s.cat.C)
			grid.FillRand(g, seed+int64(i), 0.2)
			rounds[i] = g.Data
		}
		res, err := s.DecodeBatch(context.Background(), rounds)
		if err != nil {
			t.Fatalf("seed %d: DecodeBatch: %v", seed, err)
		}
		if res.Residual.Any() != res.Complex {
			t.Errorf("seed %d: residual.Any()=%v but complex=%v, want equal", seed, res.Residual.Any(), res.Complex)
		}
	}
}

// TestDecodeBatch_RoundOrderDeterminism checks P6: decoding the same shot
// twice on independent schedulers yields bit-identical output.
func TestDecodeBatch_RoundOrderDeterminism(t *testing.T) {
	d := 5
	rounds := make([][]byte, d)
	for i := range rounds {
		g := grid.New(6, 2)
		grid.FillRand(g, int64(100+i), 0.3)
		rounds[i] = g.Data
	}

	s1, err := New(d)
	if err != nil {
		t.Fatalf("New(%d): %v", d, err)
	}
	s2, err := New(d)
	if err != nil {
		t.Fatalf("New(%d): %v", d, err)
	}

	r1, err := s1.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("s1.DecodeBatch: %v", err)
	}
	r2, err := s2.DecodeBatch(context.Background(), rounds)
	if err != nil {
		t.Fatalf("s2.DecodeBatch: %v", err)
	}

	if !r1.Correction.Equal(r2.Correction) || r1.Complex != r2.Complex || !r1.Residual.Equal(r2.Residual) {
		t.Errorf("decoding the same shot twice diverged: %+v vs %+v", r1, r2)
	}
}

// TestReset_ClearsResidualAccumulator checks that a scheduler reused across
// blocks does not leak an earlier block's residual into the next one.
func TestReset_ClearsResidualAccumulator(t *testing.T) {
	s, err := New(7)
	if err != nil {
		t.Fatalf("New(7): %v", err)
	}
	rounds := zeroRounds(7, s.cat.R, s.cat.C)
	rounds[0] = flat(s.cat.R, s.cat.C, [2]int{3, 1})
	if _, err := s.DecodeBatch(context.Background(), rounds); err != nil {
		t.Fatalf("first DecodeBatch: %v", err)
	}

	res, err := s.DecodeBatch(context.Background(), zeroRounds(7, s.cat.R, s.cat.C))
	if err != nil {
		t.Fatalf("second DecodeBatch: %v", err)
	}
	if res.Complex {
		t.Errorf("expected second block to be uncomplex, got leaked state from the first block")
	}
	if res.Residual.Any() {
		t.Errorf("expected second block's residual to be zero, got leaked state from the first block")
	}
}
