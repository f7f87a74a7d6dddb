// Package stepper time-slices a motion.Plan into integer step deltas
// and issues them to a device, implementing both block-executor
// strategies from spec.md §4.4.
package stepper

import (
	"context"

	"github.com/axiplan/axiplan/motion"
)

// DeviceMover is the subset of the ebb device driver that an Executor
// needs to drive motion. Both execution strategies depend only on this
// interface so tests can substitute a mock without pulling in the
// serial transport.
type DeviceMover interface {
	// StepperMove issues a native SM move: duration in milliseconds,
	// s1/s2 already CoreXY-summed (or raw A/B if the caller uses
	// MixedMove instead).
	StepperMove(ctx context.Context, durationMs int, s1, s2 int32) error
	// MixedMove issues a native XM move: duration in milliseconds, dA/dB
	// are the physical axis deltas; the device sums them in firmware.
	MixedMove(ctx context.Context, durationMs int, dA, dB int32) error
}

// Executor drives a motion.Plan to completion against a DeviceMover,
// honoring ctx cancellation between commands.
type Executor interface {
	Run(ctx context.Context, plan *motion.Plan, device DeviceMover) error
}

// residueTracker carries the per-axis mm→step rounding remainder
// forward across successive calls, per spec.md §9's open design note:
// resetting the fractional part at every block bounds quantization
// drift per-block but lets it accumulate unbounded over a long plan.
type residueTracker struct {
	x, y float64
}

// step folds deltaMM into the tracker's carried residue, returns the
// rounded integer step count to issue this call, and retains whatever
// fraction remains for the next call.
func (r *residueTracker) step(axis *float64, deltaMM, stepsPerMM float64) int32 {
	*axis += deltaMM * stepsPerMM
	rounded := roundHalfAwayFromZero(*axis)
	*axis -= rounded
	return int32(rounded)
}

func (r *residueTracker) stepX(deltaMM, stepsPerMM float64) int32 {
	return r.step(&r.x, deltaMM, stepsPerMM)
}

func (r *residueTracker) stepY(deltaMM, stepsPerMM float64) int32 {
	return r.step(&r.y, deltaMM, stepsPerMM)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

// CoreXY computes the summed belt-axis step counts from physical A/B
// axis deltas, for devices whose firmware does not expose a mixed-move
// command: s1 = A+B, s2 = A-B, matching the wire semantics of XM.
func CoreXY(dA, dB int32) (s1, s2 int32) {
	return dA + dB, dA - dB
}
