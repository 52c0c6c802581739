package main

import (
	"context"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/latticeforge/pinball/internal/smfstore"
	"github.com/latticeforge/pinball/pkg/smf"
)

// packInput is the JSON shape pack reads: the external maps named in
// spec.md §6, loaded from whatever produced the Stim circuit's detector
// error model and serialized as plain JSON rather than a pickle.
type packInput struct {
	DetectorOrder []uint32 `json:"detector_order"`

	ErrorQubitMap []struct {
		ErrorID uint32  `json:"error_id"`
		Q0      uint32  `json:"q0"`
		Q1      *uint32 `json:"q1,omitempty"`
	} `json:"error_qubit_map"`

	ErrorDetectorPairs []struct {
		A uint32 `json:"a"`
		B uint32 `json:"b"`
	} `json:"error_detector_pairs,omitempty"`

	ErrorComponents []struct {
		ErrorID   uint32 `json:"error_id"`
		Spacelike uint8  `json:"spacelike"`
		Timelike  uint8  `json:"timelike"`
	} `json:"error_components,omitempty"`
}

func packCmd() *cli.Command {
	var (
		inputPath  string
		outputPath string
	)

	return &cli.Command{
		Name:  "pack",
		Usage: "Build an .smf container from a JSON-encoded detector/error map file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to the JSON-encoded map file (defaults to stdin)",
				Destination: &inputPath,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "path to the .smf file to write",
				Destination: &outputPath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}
			var in packInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return err
			}

			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()

			w, err := smf.NewWriter(f)
			if err != nil {
				return err
			}

			if err := w.WriteSection(smf.SectionDetectorOrder, 1, smfstore.EncodeUint32s(in.DetectorOrder)); err != nil {
				return err
			}

			pairs := make([]smfstore.QubitPair, len(in.ErrorQubitMap))
			for i, e := range in.ErrorQubitMap {
				q1 := smfstore.NoQubit
				if e.Q1 != nil {
					q1 = int(*e.Q1)
				}
				pairs[i] = smfstore.QubitPair{ErrorID: e.ErrorID, Q0: e.Q0, Q1: uint32(q1)}
			}
			if err := w.WriteSection(smf.SectionErrorQubitMap, 1, smfstore.EncodeQubitPairs(pairs)); err != nil {
				return err
			}

			if len(in.ErrorDetectorPairs) > 0 {
				dps := make([]smfstore.DetectorPair, len(in.ErrorDetectorPairs))
				for i, p := range in.ErrorDetectorPairs {
					dps[i] = smfstore.DetectorPair{A: p.A, B: p.B}
				}
				if err := w.WriteSection(smf.SectionErrorDetectorPairs, 1, smfstore.EncodeDetectorPairs(dps)); err != nil {
					return err
				}
			}

			if len(in.ErrorComponents) > 0 {
				comps := make([]smfstore.ErrorComponent, len(in.ErrorComponents))
				for i, c := range in.ErrorComponents {
					comps[i] = smfstore.ErrorComponent{ErrorID: c.ErrorID, Spacelike: c.Spacelike, Timelike: c.Timelike}
				}
				if err := w.WriteSection(smf.SectionErrorComponents, 1, smfstore.EncodeErrorComponents(comps)); err != nil {
					return err
				}
			}

			return w.Finalise()
		},
	}
}
