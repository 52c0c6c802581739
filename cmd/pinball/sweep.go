package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/latticeforge/pinball/internal/config"
	"github.com/latticeforge/pinball/internal/harness"
	"github.com/latticeforge/pinball/internal/logger"
	"github.com/latticeforge/pinball/internal/predecoder"
)

func sweepCmd() *cli.Command {
	var (
		configPath   string
		distance     int64
		predecName   string
		shots        int64
		errorRate    float64
		outputDir    string
		simID        int64
		seed         int64
	)

	return &cli.Command{
		Name:  "sweep",
		Usage: "Drive a distance x error-rate sweep against a synthetic shot source",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"f"},
				Usage:       "path to a YAML sweep descriptor (overrides the other sweep flags)",
				Destination: &configPath,
			},
			&cli.Int64Flag{
				Name:        "distance",
				Aliases:     []string{"d"},
				Usage:       "code distance",
				Value:       5,
				Destination: &distance,
			},
			&cli.StringFlag{
				Name:        "predecoder",
				Aliases:     []string{"l1"},
				Usage:       "predecoder variant (pinball, clique, or empty for L2-only)",
				Value:       "pinball",
				Destination: &predecName,
			},
			&cli.Int64Flag{
				Name:        "shots",
				Aliases:     []string{"n"},
				Usage:       "number of shots to simulate",
				Value:       100000,
				Destination: &shots,
			},
			&cli.FloatFlag{
				Name:        "error-rate",
				Aliases:     []string{"e"},
				Usage:       "physical error rate",
				Value:       0.001,
				Destination: &errorRate,
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Aliases:     []string{"o"},
				Usage:       "output statistics directory",
				Value:       "stats/",
				Destination: &outputDir,
			},
			&cli.Int64Flag{
				Name:        "sim-id",
				Aliases:     []string{"i"},
				Usage:       "integer id distinguishing parallel sweep runs",
				Destination: &simID,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "PRNG seed for the synthetic shot source",
				Value:       1,
				Destination: &seed,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = withLogger(ctx)
			log := logger.FromContext(ctx)

			var sweeps []config.Sweep
			if configPath != "" {
				desc, err := config.Load(configPath)
				if err != nil {
					return err
				}
				sweeps = desc.Sweeps
			} else {
				id := int(simID)
				sweeps = []config.Sweep{{
					CodeDistance:      int(distance),
					Predecoder:        predecoder.Variant(predecName),
					Shots:             int(shots),
					PhysicalErrorRate: errorRate,
					OutputDir:         outputDir,
					SimID:             &id,
				}}
			}

			for _, sw := range sweeps {
				if err := sw.Validate(); err != nil {
					return err
				}

				source, err := harness.NewSyntheticShotSource(sw.CodeDistance, sw.PhysicalErrorRate, seed)
				if err != nil {
					return err
				}

				res, err := harness.Run(ctx, sw, source, nil)
				if err != nil {
					return err
				}

				path, err := harness.WriteResult(sw, res)
				if err != nil {
					return err
				}

				log.Info("sweep point complete",
					"code_distance", sw.CodeDistance,
					"predecoder", sw.Predecoder,
					"physical_error_rate", sw.PhysicalErrorRate,
					"logical_error_rate", res.LogicalErrorRate,
					"num_l1_shots", res.NumL1Shots,
					"num_l2_shots", res.NumL2Shots,
					"output", path,
				)
				fmt.Printf("d=%d e=%.4f predecoder=%s logical_error_rate=%g (%d shots)\n",
					sw.CodeDistance, sw.PhysicalErrorRate, sw.Predecoder, res.LogicalErrorRate, res.NumTotalShots)
			}
			return nil
		},
	}
}
