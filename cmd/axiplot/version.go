package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the connected EBB's firmware version",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := resolveOptions()
		device, err := connect(opts)
		if err != nil {
			return err
		}
		defer device.Close()

		ctx := context.Background()
		v, err := device.Version(ctx)
		if err != nil {
			return fmt.Errorf("axiplot: query version: %w", err)
		}
		fmt.Println(v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
