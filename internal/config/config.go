// Package config holds the harness-facing sweep configuration named in
// spec.md §6: code_distance, predecoder, shots, physical_error_rate,
// output_dir, and sim_id. Only code_distance and predecoder reach the
// decoding core; the rest are consumed by internal/harness.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/latticeforge/pinball/internal/predecoder"
)

// ErrInvalidConfig is the base sentinel for malformed sweep configuration,
// distinct from geometry.ErrInvalidDistance (which the core itself raises
// once a distance actually reaches the decoder).
var ErrInvalidConfig = errors.New("config: invalid sweep configuration")

// Sweep is one entry in a sweep descriptor: a single (predecoder, distance,
// error rate) point to simulate.
type Sweep struct {
	CodeDistance      int               `yaml:"code_distance"`
	Predecoder        predecoder.Variant `yaml:"predecoder"`
	Shots             int               `yaml:"shots"`
	PhysicalErrorRate float64           `yaml:"physical_error_rate"`
	OutputDir         string            `yaml:"output_dir"`
	SimID             *int              `yaml:"sim_id,omitempty"`
}

// Validate checks the fields that matter to the harness before any shot is
// sampled: odd code distance handling is left to geometry.For, since the
// core's own configuration error (spec.md §7) must be the single source of
// truth for "is this distance valid" — config only rejects shapes the core
// could never meaningfully interpret (non-positive shots, an out-of-range
// error rate, an unrecognized predecoder name).
func (s Sweep) Validate() error {
	if s.Shots <= 0 {
		return fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidConfig, s.Shots)
	}
	if s.PhysicalErrorRate <= 0 || s.PhysicalErrorRate >= 1 {
		return fmt.Errorf("%w: physical_error_rate must be in (0,1), got %v", ErrInvalidConfig, s.PhysicalErrorRate)
	}
	switch s.Predecoder {
	case predecoder.Pinball, predecoder.Clique, "":
		// "" names the original's "-l1 None" baseline: every shot is
		// forwarded straight to the L2 decoder, no predecoder constructed.
	default:
		return fmt.Errorf("%w: unrecognized predecoder %q", ErrInvalidConfig, s.Predecoder)
	}
	return nil
}

// Descriptor is a full sweep file: a list of sweep points, the Go-idiomatic
// analogue of the original `-f arg_file.json` sweep configuration format.
type Descriptor struct {
	Sweeps []Sweep `yaml:"sweeps"`
}

// Load reads and validates a YAML sweep descriptor from path.
func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, err
	}
	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for i, s := range desc.Sweeps {
		if err := s.Validate(); err != nil {
			return Descriptor{}, fmt.Errorf("sweep[%d]: %w", i, err)
		}
	}
	return desc, nil
}
