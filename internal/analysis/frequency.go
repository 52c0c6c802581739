package analysis

import "github.com/latticeforge/pinball/internal/smfstore"

// FrequencyHistogram is the 3x2 spacelike/timelike component histogram
// error_frequency_distribution.py accumulates: rows are the spacelike
// component count {0,1,2}, columns the timelike component count {0,1}.
type FrequencyHistogram struct {
	Counts     [3][2]uint64
	TotalCount uint64
}

// Classify accumulates one error mechanism's component tag into h.
// Out-of-range component values are ignored, mirroring the source's
// try/except around a dict lookup miss.
func (h *FrequencyHistogram) Classify(c smfstore.ErrorComponent) {
	if c.Spacelike > 2 || c.Timelike > 1 {
		return
	}
	h.Counts[c.Spacelike][c.Timelike]++
	h.TotalCount++
}

// Percentages returns each cell's share of TotalCount as a percentage,
// matching the source's `100 * count / total` reporting. An empty
// histogram returns all zeros rather than dividing by zero.
func (h *FrequencyHistogram) Percentages() [3][2]float64 {
	var out [3][2]float64
	if h.TotalCount == 0 {
		return out
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = 100 * float64(h.Counts[i][j]) / float64(h.TotalCount)
		}
	}
	return out
}

// BuildFrequencyHistogram classifies every component entry whose ErrorID
// appears in errorIDs, matching error_frequency_distribution.py's
// restriction to the error ids actually flipped in the sampled shot.
func BuildFrequencyHistogram(components []smfstore.ErrorComponent, errorIDs []uint32) FrequencyHistogram {
	present := make(map[uint32]struct{}, len(errorIDs))
	for _, id := range errorIDs {
		present[id] = struct{}{}
	}
	byID := make(map[uint32]smfstore.ErrorComponent, len(components))
	for _, c := range components {
		byID[c.ErrorID] = c
	}

	var h FrequencyHistogram
	for id := range present {
		if c, ok := byID[id]; ok {
			h.Classify(c)
		}
	}
	return h
}
