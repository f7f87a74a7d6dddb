package ebb

import "fmt"

// InvalidCommandError reports a command that failed client-side
// validation before transmission (spec.md §4.5's command-validation
// rules: non-empty, ASCII-only, no embedded CR/LF, total length <=
// 256 bytes including the trailing CR), or an unsupported servo
// channel, microstep mode or port letter. Numeric arguments out of
// range are reported as *InvalidValueError instead.
type InvalidCommandError struct {
	Command string
	Reason  string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("ebb: invalid command %q: %s", e.Command, e.Reason)
}

// InvalidValueError reports a numeric argument that fell outside the
// range a command's client-side check allows (spec.md §7's "invalid
// value" error kind, distinct from a malformed command) — ported from
// original_source/src/device.rs's per-command range checks.
type InvalidValueError struct {
	Parameter string
	Value     int64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("ebb: invalid value %d for %s", e.Value, e.Parameter)
}

// InvalidResponseError reports a response that did not match the
// shape expected for the command that provoked it: a missing OK
// terminator, or a microstep-pin decode outside the canonical table.
type InvalidResponseError struct {
	Command  string
	Response string
	Reason   string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("ebb: invalid response to %q (%q): %s", e.Command, e.Response, e.Reason)
}

// DeviceError reports an explicit error reply from the board (the EBB
// returns a line beginning "!" on firmware-detected fault conditions).
type DeviceError struct {
	Command string
	Message string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("ebb: device rejected %q: %s", e.Command, e.Message)
}

// TimeoutError reports a response read in which no bytes at all
// arrived before the Driver's Timeout elapsed.
type TimeoutError struct {
	Command string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ebb: timed out waiting for response to %q", e.Command)
}
