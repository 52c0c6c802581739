package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/latticeforge/pinball/internal/smfstore"
	"github.com/latticeforge/pinball/pkg/smf"
)

func inspectCmd() *cli.Command {
	var (
		path          string
		showSections  bool
		showDetectors bool
		showErrors    bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect the contents of an .smf metadata container",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .smf file",
				Destination: &path,
				Required:    true,
			},
			&cli.BoolFlag{Name: "sections", Usage: "show section directory", Destination: &showSections},
			&cli.BoolFlag{Name: "detectors", Usage: "show the detector-order map size", Destination: &showDetectors},
			&cli.BoolFlag{Name: "errors", Usage: "show the error-to-qubit map size", Destination: &showErrors},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := smfstore.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			printHeader(f)

			if showSections || !(showDetectors || showErrors) {
				printSectionDirectory(f)
			}
			if showDetectors {
				order, err := f.DetectorOrder()
				if err != nil && err != smfstore.ErrSectionNotFound {
					return err
				}
				section("Detector Order")
				rowInt("detectors", len(order))
			}
			if showErrors {
				pairs, err := f.ErrorQubitMap()
				if err != nil && err != smfstore.ErrSectionNotFound {
					return err
				}
				section("Error-to-Qubit Map")
				rowInt("errors", len(pairs))
			}
			return nil
		},
	}
}

func printHeader(f *smfstore.File) {
	h := f.Header()
	section("Header")
	fmt.Printf("smf v%d.%d sections=%d header=%s file=%s\n",
		h.Major, h.Minor, h.SectionCount,
		formatBytes(uint64(h.HeaderSize)), formatBytes(h.FileSize))
}

func printSectionDirectory(f *smfstore.File) {
	section("Sections")
	for _, sec := range f.Sections() {
		t := smf.SectionType(sec.Type)
		fmt.Printf("%-28s v%-2d off=%-10d size=%s\n", sectionTypeName(t), sec.Version, sec.Offset, formatBytes(sec.Size))
	}
}

func sectionTypeName(t smf.SectionType) string {
	switch t {
	case smf.SectionDetectorOrder:
		return "detector_order"
	case smf.SectionErrorQubitMap:
		return "error_qubit_map"
	case smf.SectionErrorDetectorPairs:
		return "error_detector_pairs"
	case smf.SectionErrorComponents:
		return "error_components"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint32(t))
	}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for val := n / unit; val >= unit; val /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func rowInt(label string, v int) {
	fmt.Printf("%-24s %d\n", label+":", v)
}
