package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/axiplan/axiplan/ebb"
	"github.com/axiplan/axiplan/internal/plog"
	"github.com/axiplan/axiplan/plotter"
)

// candidatePortGlobs is the fallback autodetection list when --port is
// not given: the common Linux/macOS device-file patterns an EBB shows
// up under. Full USB descriptor scanning for a product string
// beginning "EiBotBoard" (spec.md §4.5) needs a USB enumeration
// library outside this corpus's dependency surface; this glob-based
// probe is the pragmatic stand-in, and --port always overrides it.
var candidatePortGlobs = []string{
	"/dev/ttyACM*",
	"/dev/ttyUSB*",
	"/dev/cu.usbmodem*",
}

func logger() zerolog.Logger {
	return plog.New(plog.Options{Console: true})
}

func resolvePort(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	for _, pattern := range candidatePortGlobs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("axiplot: no serial port found, pass --port explicitly")
}

// divisorToModeForCmd maps a configured microstep_divisor to the ebb
// package's MicrostepMode enum, mirroring plotter's internal table for
// the subcommands that talk to ebb.Device directly (home, pen).
func divisorToModeForCmd(divisor int) (ebb.MicrostepMode, bool) {
	switch divisor {
	case 1:
		return ebb.FullStep, true
	case 2:
		return ebb.HalfStep, true
	case 4:
		return ebb.QuarterStep, true
	case 8:
		return ebb.EighthStep, true
	case 16:
		return ebb.SixteenthStep, true
	default:
		return 0, false
	}
}

// connect opens the serial port named by opts.Port (or autodetects
// one) and wraps it in an ebb.Device.
func connect(opts plotter.Options) (*ebb.Device, error) {
	portName, err := resolvePort(opts.Port)
	if err != nil {
		return nil, err
	}

	port, err := ebb.OpenSerial(portName)
	if err != nil {
		return nil, fmt.Errorf("axiplot: open %s: %w", portName, err)
	}

	cfg := ebb.Config{
		PenUpPercent:     opts.PenUpPercent,
		PenDownPercent:   opts.PenDownPercent,
		PenUpSpeed:       opts.PenUpSpeed,
		PenDownSpeed:     opts.PenDownSpeed,
		PenUpDelay:       opts.PenUpDelay,
		PenDownDelay:     opts.PenDownDelay,
		StepsPerMM:       opts.StepsPerMM(),
		MicrostepDivisor: opts.MicrostepDivisor,
	}
	return ebb.NewDevice(port, cfg, logger()), nil
}
