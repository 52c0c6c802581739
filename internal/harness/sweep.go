package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/latticeforge/pinball/internal/config"
	"github.com/latticeforge/pinball/internal/predecoder"
)

// L2Decoder is the downstream matching decoder a complex (or forwarded)
// shot falls back to, matching logical_error_rate.py's pymatching.Matching
// call. It is optional: a sweep run with no L2Decoder still counts
// forwarded shots (NumL2Shots), it just cannot score their correctness,
// since scoring requires decoding the full detector error model.
type L2Decoder interface {
	Decode(ctx context.Context, shot Shot) (observablePrediction bool, err error)
}

// Result is the harness's sweep statistics, field-for-field identical to
// logical_error_rate.py's JSON output.
type Result struct {
	LogicalErrorRate float64 `json:"logical_error_rate"`
	NumL1Errors      int     `json:"num_l1_errors"`
	NumL1Shots       int     `json:"num_l1_shots"`
	NumL2Errors      int     `json:"num_l2_errors"`
	NumL2Shots       int     `json:"num_l2_shots"`
	NumTotalShots    int     `json:"num_total_shots"`
}

// Run drives cfg.Shots shots from source through the named predecoder
// variant, reproducing logical_error_rate.py's sim() loop exactly: an
// all-zero shot is trivially resolved without invoking the decoder at all,
// a non-complex predecoder result is scored directly, and every complex
// (or forwarded, when predecoder is empty-string "none") shot falls
// through to l2, if one is supplied.
func Run(ctx context.Context, cfg config.Sweep, source ShotSource, l2 L2Decoder) (Result, error) {
	usePredecoder := cfg.Predecoder != ""
	var dec predecoder.Decoder
	if usePredecoder {
		d, err := predecoder.New(cfg.Predecoder, cfg.CodeDistance)
		if err != nil {
			return Result{}, err
		}
		dec = d
	}

	var res Result
	for shotsLeft := cfg.Shots; shotsLeft > 0; {
		batch, err := source.Sample(ctx, 1)
		if err != nil {
			return Result{}, err
		}
		for _, shot := range batch.Shots {
			if shotsLeft == 0 {
				break
			}
			shotsLeft--

			if !anyRoundFired(shot.Rounds) {
				if usePredecoder {
					res.NumL1Shots++
				} else {
					res.NumL2Shots++
				}
				continue
			}

			resolved := false
			if usePredecoder {
				block, err := dec.DecodeBatch(ctx, shot.Rounds)
				if err != nil {
					return Result{}, err
				}
				if !block.Complex {
					resolved = true
					res.NumL1Shots++
					if predecoder.IsLogicalError(block.Correction, shot.ObservableFlip) {
						res.NumL1Errors++
					}
				}
			}

			if !resolved {
				res.NumL2Shots++
				if l2 != nil {
					prediction, err := l2.Decode(ctx, shot)
					if err != nil {
						return Result{}, err
					}
					if prediction != shot.ObservableFlip {
						res.NumL2Errors++
					}
				}
			}
		}
	}

	res.NumTotalShots = cfg.Shots
	total := res.NumL1Shots + res.NumL2Shots
	if total > 0 {
		res.LogicalErrorRate = float64(res.NumL1Errors+res.NumL2Errors) / float64(total)
	}
	return res, nil
}

func anyRoundFired(rounds [][]byte) bool {
	for _, round := range rounds {
		for _, b := range round {
			if b != 0 {
				return true
			}
		}
	}
	return false
}

// WriteResult writes res as indented JSON to
// <cfg.OutputDir>/d=<D>/e=<rate>/<sim_id>.json, matching
// logical_error_rate.py's output directory layout so existing analysis
// scripts for the original format still find the file.
func WriteResult(cfg config.Sweep, res Result) (string, error) {
	simID := 0
	if cfg.SimID != nil {
		simID = *cfg.SimID
	}
	dir := filepath.Join(cfg.OutputDir, fmt.Sprintf("d=%d", cfg.CodeDistance), fmt.Sprintf("e=%.4f", cfg.PhysicalErrorRate))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, fmt.Sprintf("%d.json", simID))

	data, err := json.MarshalIndent(res, "", "    ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}
