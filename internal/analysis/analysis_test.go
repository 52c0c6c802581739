package analysis

import (
	"testing"

	"github.com/latticeforge/pinball/internal/smfstore"
)

func TestLongestErrorChainEmpty(t *testing.T) {
	if got := LongestErrorChain(nil); got != 0 {
		t.Errorf("LongestErrorChain(nil) = %d, want 0", got)
	}
}

func TestLongestErrorChainSingleEdge(t *testing.T) {
	got := LongestErrorChain([][2]uint32{{1, 2}})
	if got != 1 {
		t.Errorf("single edge chain length = %d, want 1", got)
	}
}

func TestLongestErrorChainPicksLongestComponent(t *testing.T) {
	edges := [][2]uint32{
		{1, 2}, {2, 3}, {3, 4}, // chain of length 3
		{10, 11}, // disjoint chain of length 1
	}
	got := LongestErrorChain(edges)
	if got != 3 {
		t.Errorf("LongestErrorChain = %d, want 3", got)
	}
}

func TestLongestErrorChainIgnoresCycles(t *testing.T) {
	edges := [][2]uint32{{1, 2}, {2, 3}, {3, 1}}
	got := LongestErrorChain(edges)
	if got != 2 {
		t.Errorf("3-node cycle: LongestErrorChain = %d, want 2 (3 detectors - 1)", got)
	}
}

func TestFrequencyHistogramClassification(t *testing.T) {
	components := []smfstore.ErrorComponent{
		{ErrorID: 1, Spacelike: 0, Timelike: 0},
		{ErrorID: 2, Spacelike: 1, Timelike: 1},
		{ErrorID: 3, Spacelike: 2, Timelike: 0},
		{ErrorID: 4, Spacelike: 1, Timelike: 1},
	}
	h := BuildFrequencyHistogram(components, []uint32{1, 2, 3, 4})
	if h.TotalCount != 4 {
		t.Fatalf("TotalCount = %d, want 4", h.TotalCount)
	}
	if h.Counts[1][1] != 2 {
		t.Errorf("Counts[1][1] = %d, want 2", h.Counts[1][1])
	}
	pct := h.Percentages()
	if pct[1][1] != 50 {
		t.Errorf("Percentages()[1][1] = %v, want 50", pct[1][1])
	}
}

func TestFrequencyHistogramIgnoresMissingAndOutOfRange(t *testing.T) {
	components := []smfstore.ErrorComponent{
		{ErrorID: 1, Spacelike: 0, Timelike: 0},
	}
	h := BuildFrequencyHistogram(components, []uint32{1, 99})
	if h.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1 (error id 99 has no component entry)", h.TotalCount)
	}

	var direct FrequencyHistogram
	direct.Classify(smfstore.ErrorComponent{ErrorID: 5, Spacelike: 9, Timelike: 0})
	if direct.TotalCount != 0 {
		t.Errorf("out-of-range spacelike component must be ignored")
	}
}

func TestFrequencyHistogramEmptyPercentages(t *testing.T) {
	var h FrequencyHistogram
	pct := h.Percentages()
	for i := range pct {
		for j := range pct[i] {
			if pct[i][j] != 0 {
				t.Errorf("empty histogram percentage[%d][%d] = %v, want 0", i, j, pct[i][j])
			}
		}
	}
}
