// Package main is axiplot, the command-line front end for the
// axiplan pen-plotter stack: plot a polyline file, home the gantry,
// or jog the pen for calibration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/axiplan/axiplan/plotter"
)

func init() {
	viper.SetConfigName("axiplot")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("AXIPLOT")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No axiplot.toml/.yaml/.json in the working directory;
			// flags, env vars, and built-in defaults still apply.
		} else {
			fmt.Fprintln(os.Stderr, "axiplot: error loading config file:", err)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "axiplot",
	Short: "axiplot drives an AxiDraw-class pen plotter over serial",
}

func init() {
	rootCmd.PersistentFlags().String("port", "", "serial device path (default: autodetect)")
	rootCmd.PersistentFlags().Float64("acceleration", 0, "override acceleration, mm/s^2")
	rootCmd.PersistentFlags().Float64("max-velocity", 0, "override max velocity, mm/s")
	rootCmd.PersistentFlags().Float64("corner-factor", 0, "override corner factor")
	rootCmd.PersistentFlags().Duration("slice-duration", 0, "force Strategy B sampling at this interval")
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("acceleration", rootCmd.PersistentFlags().Lookup("acceleration"))
	viper.BindPFlag("max_velocity", rootCmd.PersistentFlags().Lookup("max-velocity"))
	viper.BindPFlag("corner_factor", rootCmd.PersistentFlags().Lookup("corner-factor"))
	viper.BindPFlag("slice_duration", rootCmd.PersistentFlags().Lookup("slice-duration"))
}

// resolveOptions layers plotter.DefaultOptions() under whatever cobra
// flags / env vars / config file set, per SPEC_FULL.md §3's
// flag > env AXIPLOT_* > config file > default resolution order.
func resolveOptions() plotter.Options {
	opts := plotter.DefaultOptions()
	if v := viper.GetString("port"); v != "" {
		opts.Port = v
	}
	if v := viper.GetFloat64("acceleration"); v != 0 {
		opts.Acceleration = v
	}
	if v := viper.GetFloat64("max_velocity"); v != 0 {
		opts.MaxVelocity = v
	}
	if v := viper.GetFloat64("corner_factor"); v != 0 {
		opts.CornerFactor = v
	}
	if v := viper.GetDuration("slice_duration"); v != 0 {
		opts.SliceDuration = v
	}
	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
