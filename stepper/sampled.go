package stepper

import (
	"context"
	"fmt"

	"github.com/axiplan/axiplan/motion"
)

// SampledExecutor implements Strategy B from spec.md §4.4: fixed
// time-slice sampling of plan.Instant, mandatory whenever a plan's
// acceleration/velocity configuration would produce a block whose
// duration exceeds the device's SM/XM ceiling (e.g. very slow pen-up
// travel over a long polyline).
type SampledExecutor struct {
	// StepsPerMM converts millimeters to integer motor steps.
	StepsPerMM float64
	// SliceDuration is the fixed Δt per spec.md §4.4's "30-100ms"
	// guidance. Required; Run returns an error if it is <= 0.
	SliceDuration float64
	// UseMixedMove selects XM over SM, as in NativeExecutor.
	UseMixedMove bool

	residue residueTracker
}

// Run samples plan at fixed SliceDuration intervals from 0 to
// plan.TotalTime and issues one move per slice.
func (e *SampledExecutor) Run(ctx context.Context, plan *motion.Plan, device DeviceMover) error {
	if e.SliceDuration <= 0 {
		return fmt.Errorf("stepper: SampledExecutor.SliceDuration must be positive, got %v", e.SliceDuration)
	}
	e.residue = residueTracker{}

	dt := e.SliceDuration
	durationMS := roundDurationMS(dt)
	if durationMS < 1 {
		durationMS = 1
	}

	for t := 0.0; t < plan.TotalTime; t += dt {
		if err := ctx.Err(); err != nil {
			return err
		}

		tEnd := t + dt
		if tEnd > plan.TotalTime {
			tEnd = plan.TotalTime
		}
		sliceMS := durationMS
		if tEnd < t+dt {
			sliceMS = roundDurationMS(tEnd - t)
			if sliceMS < 1 {
				sliceMS = 1
			}
		}

		start := plan.Instant(t)
		end := plan.Instant(tEnd)

		dxMM := end.Position.X - start.Position.X
		dyMM := end.Position.Y - start.Position.Y
		dA := e.residue.stepX(dxMM, e.StepsPerMM)
		dB := e.residue.stepY(dyMM, e.StepsPerMM)
		if dA == 0 && dB == 0 {
			continue
		}

		if e.UseMixedMove {
			if err := device.MixedMove(ctx, sliceMS, dA, dB); err != nil {
				return fmt.Errorf("stepper: sampled mixed move: %w", err)
			}
			continue
		}

		s1, s2 := CoreXY(dA, dB)
		if err := device.StepperMove(ctx, sliceMS, s1, s2); err != nil {
			return fmt.Errorf("stepper: sampled stepper move: %w", err)
		}
	}
	return nil
}
