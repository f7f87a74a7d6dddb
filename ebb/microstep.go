package ebb

import (
	"context"
	"fmt"
)

// microstepPins names the five PI reads spec.md §4.5 requires at
// connection time: per-motor enable plus the three MS1/MS2/MS3 lines.
type microstepPins struct {
	motor1Enable bool
	motor2Enable bool
	ms1, ms2, ms3 bool
}

// canonical MS1/MS2/MS3 decode table, per spec.md §8's worked example
// ((1,1,1) -> OneSixteenth, (0,0,0) -> FullStep) extended to the full
// five-entry table the EBB firmware documents.
var msDecodeTable = map[[3]bool]MicrostepMode{
	{false, false, false}: FullStep,
	{true, false, false}:  HalfStep,
	{false, true, false}:  QuarterStep,
	{true, true, false}:   EighthStep,
	{true, true, true}:    SixteenthStep,
}

// DetectMicrostepMode reads the enable and MS1/MS2/MS3 pins via PI and
// decodes the device's current microstep mode, updating the cached
// per-motor enable flags along the way. Returns *InvalidResponseError
// if the pin combination is not in the canonical decode table.
func (d *Device) DetectMicrostepMode(ctx context.Context) (MicrostepMode, error) {
	pins, err := d.readMicrostepPins(ctx)
	if err != nil {
		return 0, err
	}

	d.State.Motor1Enabled = pins.motor1Enable
	d.State.Motor2Enabled = pins.motor2Enable

	mode, ok := msDecodeTable[[3]bool{pins.ms1, pins.ms2, pins.ms3}]
	if !ok {
		return 0, &InvalidResponseError{
			Command: "PI",
			Response: fmt.Sprintf("MS1=%v MS2=%v MS3=%v", pins.ms1, pins.ms2, pins.ms3),
			Reason:   "pin combination not in canonical microstep decode table",
		}
	}
	d.State.StepMode = mode
	return mode, nil
}

func (d *Device) readMicrostepPins(ctx context.Context) (microstepPins, error) {
	motor1, err := d.ReadPin(ctx, 'E', 0)
	if err != nil {
		return microstepPins{}, err
	}
	motor2, err := d.ReadPin(ctx, 'C', 1)
	if err != nil {
		return microstepPins{}, err
	}
	ms1, err := d.ReadPin(ctx, 'E', 2)
	if err != nil {
		return microstepPins{}, err
	}
	ms2, err := d.ReadPin(ctx, 'E', 1)
	if err != nil {
		return microstepPins{}, err
	}
	ms3, err := d.ReadPin(ctx, 'A', 6)
	if err != nil {
		return microstepPins{}, err
	}
	return microstepPins{motor1Enable: motor1, motor2Enable: motor2, ms1: ms1, ms2: ms2, ms3: ms3}, nil
}
