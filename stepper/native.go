package stepper

import (
	"context"
	"fmt"

	"github.com/axiplan/axiplan/motion"
)

// NativeExecutor implements Strategy A from spec.md §4.4: one SM (or
// XM) command per plan block, used whenever every block's duration
// fits the EBB's [1, 16_777_215] ms range. Grounded on
// original_source/src/axidraw.rs's execute_block/move_to, which is the
// strategy the Rust original actually ships against SM, not XM — see
// SPEC_FULL.md §12 for why axiplan keeps that default.
type NativeExecutor struct {
	// StepsPerMM converts millimeters to integer motor steps.
	StepsPerMM float64
	// UseMixedMove selects XM (firmware-side CoreXY sum) over SM with a
	// software-computed sum. Defaults to false (SM), matching
	// axidraw.rs.
	UseMixedMove bool

	residue residueTracker
}

// MaxBlockDurationMS is the EBB SM/XM command's upper duration bound.
const MaxBlockDurationMS = 16_777_215

// BlockDurationError reports a block whose duration does not fit the
// device's native move command and must instead go through
// SampledExecutor.
type BlockDurationError struct {
	DurationMS int
}

func (e *BlockDurationError) Error() string {
	return fmt.Sprintf("stepper: block duration %dms exceeds device limit %dms, use SampledExecutor", e.DurationMS, MaxBlockDurationMS)
}

// Run issues one native move per block of plan, in order. If any
// block's duration falls outside the device's range it returns a
// *BlockDurationError before sending anything, so the caller can fall
// back to SampledExecutor for this plan rather than interleave partial
// native and sampled output.
func (e *NativeExecutor) Run(ctx context.Context, plan *motion.Plan, device DeviceMover) error {
	for _, block := range plan.Blocks {
		if durationMS := roundDurationMS(block.Duration); durationMS > MaxBlockDurationMS {
			return &BlockDurationError{DurationMS: durationMS}
		}
	}

	e.residue = residueTracker{}
	for _, block := range plan.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}

		durationMS := roundDurationMS(block.Duration)
		if durationMS < 1 {
			durationMS = 1
		}
		if durationMS > MaxBlockDurationMS {
			return &BlockDurationError{DurationMS: durationMS}
		}

		dxMM := block.P2.X - block.P1.X
		dyMM := block.P2.Y - block.P1.Y
		dA := e.residue.stepX(dxMM, e.StepsPerMM)
		dB := e.residue.stepY(dyMM, e.StepsPerMM)
		if dA == 0 && dB == 0 {
			continue
		}

		if e.UseMixedMove {
			if err := device.MixedMove(ctx, durationMS, dA, dB); err != nil {
				return fmt.Errorf("stepper: native mixed move: %w", err)
			}
			continue
		}

		s1, s2 := CoreXY(dA, dB)
		if err := device.StepperMove(ctx, durationMS, s1, s2); err != nil {
			return fmt.Errorf("stepper: native stepper move: %w", err)
		}
	}
	return nil
}

func roundDurationMS(seconds float64) int {
	return int(seconds*1000 + 0.5)
}
