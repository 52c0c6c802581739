package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/latticeforge/pinball/internal/predecoder"
)

func TestSweepValidate(t *testing.T) {
	cases := []struct {
		name    string
		sweep   Sweep
		wantErr bool
	}{
		{"valid", Sweep{CodeDistance: 5, Predecoder: predecoder.Pinball, Shots: 100, PhysicalErrorRate: 0.001}, false},
		{"zero shots", Sweep{CodeDistance: 5, Predecoder: predecoder.Pinball, Shots: 0, PhysicalErrorRate: 0.001}, true},
		{"negative shots", Sweep{CodeDistance: 5, Predecoder: predecoder.Pinball, Shots: -1, PhysicalErrorRate: 0.001}, true},
		{"error rate zero", Sweep{CodeDistance: 5, Predecoder: predecoder.Pinball, Shots: 10, PhysicalErrorRate: 0}, true},
		{"error rate one", Sweep{CodeDistance: 5, Predecoder: predecoder.Pinball, Shots: 10, PhysicalErrorRate: 1}, true},
		{"unknown predecoder", Sweep{CodeDistance: 5, Predecoder: "bogus", Shots: 10, PhysicalErrorRate: 0.001}, true},
		{"clique is valid", Sweep{CodeDistance: 3, Predecoder: predecoder.Clique, Shots: 10, PhysicalErrorRate: 0.01}, false},
		{"empty predecoder is the L2-only baseline", Sweep{CodeDistance: 3, Predecoder: "", Shots: 10, PhysicalErrorRate: 0.01}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.sweep.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestLoadValidDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	contents := `
sweeps:
  - code_distance: 5
    predecoder: pinball
    shots: 1000
    physical_error_rate: 0.001
    output_dir: /tmp/out
  - code_distance: 3
    predecoder: clique
    shots: 500
    physical_error_rate: 0.005
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(desc.Sweeps) != 2 {
		t.Fatalf("len(Sweeps) = %d, want 2", len(desc.Sweeps))
	}
	if desc.Sweeps[0].Predecoder != predecoder.Pinball {
		t.Errorf("Sweeps[0].Predecoder = %v, want pinball", desc.Sweeps[0].Predecoder)
	}
	if desc.Sweeps[1].CodeDistance != 3 {
		t.Errorf("Sweeps[1].CodeDistance = %d, want 3", desc.Sweeps[1].CodeDistance)
	}
}

func TestLoadRejectsInvalidSweep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	contents := `
sweeps:
  - code_distance: 5
    predecoder: pinball
    shots: 0
    physical_error_rate: 0.001
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with zero shots should fail validation")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/sweep.yaml"); err == nil {
		t.Error("Load() of missing file should return an error")
	}
}
