package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var penCmd = &cobra.Command{
	Use:   "pen",
	Short: "manual pen control for calibration",
}

var penUpCmd = &cobra.Command{
	Use:   "up",
	Short: "raise the pen",
	RunE:  penCommand(false),
}

var penDownCmd = &cobra.Command{
	Use:   "down",
	Short: "lower the pen",
	RunE:  penCommand(true),
}

func penCommand(down bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := resolveOptions()
		device, err := connect(opts)
		if err != nil {
			return err
		}
		defer device.Close()

		if err := device.PenState(context.Background(), down, 0); err != nil {
			return fmt.Errorf("axiplot: pen command: %w", err)
		}
		return nil
	}
}

func init() {
	penCmd.AddCommand(penUpCmd, penDownCmd)
	rootCmd.AddCommand(penCmd)
}
