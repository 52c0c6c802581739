// Package harness drives the predecoder against sampled syndrome shots and
// reproduces logical_error_rate.py's exact accounting: shots resolved by
// the predecoder (L1) vs. forwarded to a downstream matching decoder (L2),
// and the combined logical error rate.
package harness

import "context"

// Shot is one sampled circuit run: the per-round syndrome bits fed to the
// predecoder, the ids of the error mechanisms that actually fired (consumed
// by internal/analysis), and the Stim circuit's sampled observable flip.
type Shot struct {
	Rounds         [][]byte
	ErrorIDs       []uint32
	ObservableFlip bool
}

// ShotBatch groups the shots returned by a single Sample call.
type ShotBatch struct {
	Shots []Shot
}

// ShotSource is the external-simulator seam: circuit sampling (Stim, or any
// other circuit-level noise simulator) is explicitly out of scope for the
// decoding core, but the harness needs shots to drive against. A caller
// that owns a real simulator implements this interface; nothing in this
// module imports one.
type ShotSource interface {
	Sample(ctx context.Context, n int) (ShotBatch, error)
}
