package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "connect, zero the step counters, home to (0,0), then disconnect",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := resolveOptions()
		device, err := connect(opts)
		if err != nil {
			return err
		}

		ctx := context.Background()
		mode, ok := divisorToModeForCmd(opts.MicrostepDivisor)
		if !ok {
			device.Close()
			return fmt.Errorf("axiplot: unsupported microstep_divisor %d", opts.MicrostepDivisor)
		}
		if err := device.EnableMotors(ctx, mode); err != nil {
			device.Close()
			return err
		}
		if err := device.ZeroPosition(ctx); err != nil {
			device.Close()
			return err
		}
		if err := device.Home(ctx, 2000, nil, nil); err != nil {
			device.Close()
			return err
		}
		return device.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
