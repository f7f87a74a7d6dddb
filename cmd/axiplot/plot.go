package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axiplan/axiplan/geom"
	"github.com/axiplan/axiplan/plotter"
)

var plotCmd = &cobra.Command{
	Use:   "plot <points-file>",
	Short: "plot a drawing described as line-delimited point pairs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drawing, err := loadDrawing(args[0])
		if err != nil {
			return err
		}

		opts := resolveOptions()
		device, err := connect(opts)
		if err != nil {
			return err
		}

		executor := plotter.NewExecutorFor(opts)
		orch := plotter.NewOrchestrator(device, opts, executor, logger())
		return orch.Run(context.Background(), drawing)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
}

// loadDrawing parses the simple line-delimited point-pair format:
// one "x,y" point per line, a blank line separating successive
// polylines. The SVG/font front-ends that would produce richer
// drawings stay out of scope per spec.md §1 — this format is only
// the core pipeline's minimal on-disk input.
func loadDrawing(path string) (plotter.Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return plotter.Drawing{}, fmt.Errorf("axiplot: open %s: %w", path, err)
	}
	defer f.Close()

	var drawing plotter.Drawing
	var current []geom.Point

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				drawing.Polylines = append(drawing.Polylines, current)
				current = nil
			}
			continue
		}
		p, err := parsePoint(line)
		if err != nil {
			return plotter.Drawing{}, fmt.Errorf("axiplot: %s:%d: %w", path, lineNo, err)
		}
		current = append(current, p)
	}
	if err := scanner.Err(); err != nil {
		return plotter.Drawing{}, fmt.Errorf("axiplot: read %s: %w", path, err)
	}
	if len(current) > 0 {
		drawing.Polylines = append(drawing.Polylines, current)
	}
	return drawing, nil
}

func parsePoint(line string) (geom.Point, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("expected \"x,y\", got %q", line)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid x in %q: %w", line, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid y in %q: %w", line, err)
	}
	return geom.Point{X: x, Y: y}, nil
}
