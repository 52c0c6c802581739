package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/latticeforge/pinball/internal/api"
	"github.com/latticeforge/pinball/internal/predecoder"
)

func decodeCmd() *cli.Command {
	var inputPath string

	return &cli.Command{
		Name:  "decode",
		Usage: "Decode one JSON-encoded block from a file or stdin",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to a JSON-encoded decode request (defaults to stdin)",
				Destination: &inputPath,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = withLogger(ctx)

			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}
			var req api.DecodeBatchRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("decode: parsing request: %w", err)
			}

			dec, err := predecoder.New(req.Variant, req.CodeDistance)
			if err != nil {
				return err
			}
			block, err := dec.DecodeBatch(ctx, req.Rounds)
			if err != nil {
				return err
			}

			resp := api.DecodeBatchResponse{
				Correction:     block.Correction.Data,
				CorrectionRows: block.Correction.Rows,
				CorrectionCols: block.Correction.Cols,
				Complex:        block.Complex,
				Residual:       block.Residual.Data,
				ResidualRows:   block.Residual.Rows,
				ResidualCols:   block.Residual.Cols,
			}
			if req.ScoreLogicalError {
				isErr := predecoder.IsLogicalError(block.Correction, req.ObservableFlip)
				resp.IsLogicalError = &isErr
			}

			out, err := json.MarshalIndent(resp, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
