package ebb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MicrostepMode is one of the five EBB step-mode resolutions, decoded
// either from an explicit EM command or from a connection-time pin
// read (see DetectMicrostepMode).
type MicrostepMode int

const (
	FullStep MicrostepMode = iota
	HalfStep
	QuarterStep
	EighthStep
	SixteenthStep
)

// emStepMode maps a MicrostepMode to the EM command's e1 argument.
var emStepMode = map[MicrostepMode]int{
	FullStep:     1,
	HalfStep:     2,
	QuarterStep:  3,
	EighthStep:   4,
	SixteenthStep: 5,
}

// State is the cached device state the spec requires the client to
// track locally rather than re-query: pen position, per-motor enable,
// and microstep mode.
type State struct {
	IsLowered     bool
	Motor1Enabled bool
	Motor2Enabled bool
	StepMode      MicrostepMode
}

// Config bundles the per-device constants spec.md §3 calls out: servo
// positions/rates (user units, not raw SC values — see ServoPosition/
// ServoRate), raise/lower delays, and the mm-to-step ratio.
type Config struct {
	// PenUpPercent/PenDownPercent are 0-100; ServoPosition maps them
	// onto the servo's raw [7500,28000] range.
	PenUpPercent   int
	PenDownPercent int
	// PenUpSpeed/PenDownSpeed are the user-facing rate values; ServoRate
	// multiplies by 5 before they reach SC,11/SC,12.
	PenUpSpeed       int
	PenDownSpeed     int
	PenUpDelay       time.Duration
	PenDownDelay     time.Duration
	StepsPerMM       float64
	MicrostepDivisor int
}

// DefaultConfig returns the AxiDraw V3-class defaults used by
// original_source/src/axidraw.rs: 80/microstep_divisor steps/mm (5 at
// the default divisor of 16, as plotter.Options.StepsPerMM computes),
// PEN_UP_POS/PEN_UP_SPEED/PEN_DOWN_POS/PEN_DOWN_SPEED.
func DefaultConfig() Config {
	return Config{
		PenUpPercent:     60,
		PenDownPercent:   30,
		PenUpSpeed:       150,
		PenDownSpeed:     150,
		StepsPerMM:       80.0 / 16,
		MicrostepDivisor: 16,
	}
}

// servoMin and servoMax bound the raw SC,4/SC,5 servo position range,
// per original_source/src/device.rs:142-143.
const (
	servoMin = 7500
	servoMax = 28000
)

// ServoPosition maps a 0-100 pen position percentage onto the servo's
// raw position range, per original_source/src/device.rs:146-151
// (servo_min + (servo_max-servo_min)*pct/100).
func ServoPosition(percent int) int {
	return servoMin + (servoMax-servoMin)*percent/100
}

// ServoRate maps a user-facing pen speed value onto the raw SC,11/
// SC,12 rate argument, per original_source/src/device.rs:156-157
// (speed*5).
func ServoRate(speed int) int {
	return speed * 5
}

// Servo channel numbers for ConfigureServo/Configure, per spec.md §6.
const (
	channelPenUpPosition   = 4
	channelPenDownPosition = 5
	channelPenUpRate       = 11
	channelPenDownRate     = 12
)

// Device is a connected EBB: the raw Driver plus cached State and
// Config. All methods are synchronous and single-threaded per
// spec.md §5 — one logical plan->transmit->await pipeline, no
// concurrent motion commands in flight.
type Device struct {
	driver *Driver
	port   SerialPortInterface
	State  State
	Config Config
	log    zerolog.Logger
}

// NewDevice wraps an already-open SerialPortInterface. Callers
// typically obtain port via OpenSerial.
func NewDevice(port SerialPortInterface, cfg Config, log zerolog.Logger) *Device {
	return &Device{
		driver: NewDriver(port),
		port:   port,
		Config: cfg,
		log:    log.With().Str("component", "ebb").Logger(),
	}
}

// Version returns the firmware version string (no OK terminator).
func (d *Device) Version(ctx context.Context) (string, error) {
	resp, err := d.driver.Transfer("V", false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// Reboot resets the board to its power-on state.
func (d *Device) Reboot(ctx context.Context) error {
	_, err := d.driver.Transfer("RB", true)
	return err
}

// Reset reinitializes the board without a full power-cycle.
func (d *Device) Reset(ctx context.Context) error {
	_, err := d.driver.Transfer("R", true)
	return err
}

// ConfigureServo issues one of the SC,channel,value commands: channel 4
// is pen-up position, 5 pen-down position, 11 pen-up rate, 12
// pen-down rate.
func (d *Device) ConfigureServo(ctx context.Context, channel, value int) error {
	switch channel {
	case channelPenUpPosition, channelPenDownPosition:
		if err := checkRange("SC", "value", int64(value), servoMin, servoMax); err != nil {
			return err
		}
	case channelPenUpRate, channelPenDownRate:
		if err := checkRange("SC", "value", int64(value), 0, 65535); err != nil {
			return err
		}
	default:
		return &InvalidCommandError{Command: "SC", Reason: fmt.Sprintf("unknown channel %d", channel)}
	}
	_, err := d.driver.Transfer(fmt.Sprintf("SC,%d,%d", channel, value), true)
	return err
}

// Configure issues the four servo configuration commands derived from
// d.Config, mirroring original_source/src/device.rs:134-157's
// Device::new->configure() sequence that always runs at session
// start so the board's pen-up/pen-down servo positions and rates
// reflect the configured options rather than whatever was last
// flashed.
func (d *Device) Configure(ctx context.Context) error {
	if err := d.ConfigureServo(ctx, channelPenUpPosition, ServoPosition(d.Config.PenUpPercent)); err != nil {
		return fmt.Errorf("ebb: configure pen-up position: %w", err)
	}
	if err := d.ConfigureServo(ctx, channelPenDownPosition, ServoPosition(d.Config.PenDownPercent)); err != nil {
		return fmt.Errorf("ebb: configure pen-down position: %w", err)
	}
	if err := d.ConfigureServo(ctx, channelPenUpRate, ServoRate(d.Config.PenUpSpeed)); err != nil {
		return fmt.Errorf("ebb: configure pen-up rate: %w", err)
	}
	if err := d.ConfigureServo(ctx, channelPenDownRate, ServoRate(d.Config.PenDownSpeed)); err != nil {
		return fmt.Errorf("ebb: configure pen-down rate: %w", err)
	}
	return nil
}

// PenState lowers (down=true) or raises (down=false) the pen, updating
// the cached IsLowered flag on success.
func (d *Device) PenState(ctx context.Context, down bool, durationMS int) error {
	if durationMS != 0 {
		if err := checkRange("SP", "dur", int64(durationMS), 1, 65535); err != nil {
			return err
		}
	}
	v := 1
	if down {
		v = 0
	}
	body := fmt.Sprintf("SP,%d", v)
	if durationMS != 0 {
		body = fmt.Sprintf("%s,%d", body, durationMS)
	}
	if _, err := d.driver.Transfer(body, true); err != nil {
		return err
	}
	d.State.IsLowered = down
	d.log.Debug().Bool("down", down).Msg("pen state updated")
	return nil
}

// QueryPenState asks the device for its pen position. The wire
// encoding is the spec's documented quirk: '0' means down, matching
// spec.md §9's explicit note that this polarity is intentional and
// not a typo against the SP command's own v=0-means-down convention.
func (d *Device) QueryPenState(ctx context.Context) (bool, error) {
	resp, err := d.driver.Transfer("QP", true)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(resp)
	switch trimmed {
	case "0":
		return true, nil
	case "1":
		return false, nil
	default:
		return false, &InvalidResponseError{Command: "QP", Response: resp, Reason: "expected 0 or 1"}
	}
}

// ZeroPosition resets both global step counters to 0.
func (d *Device) ZeroPosition(ctx context.Context) error {
	_, err := d.driver.Transfer("CS", true)
	return err
}

// Home moves to absolute (0,0), or to (p1,p2) if given, at step rate
// freq.
func (d *Device) Home(ctx context.Context, freq int, p1, p2 *int32) error {
	if err := checkRange("HM", "freq", int64(freq), 2, 25000); err != nil {
		return err
	}
	body := fmt.Sprintf("HM,%d", freq)
	if p1 != nil {
		if err := checkRange("HM", "p1", int64(*p1), -4294967, 4294967); err != nil {
			return err
		}
		body += fmt.Sprintf(",%d", *p1)
		if p2 != nil {
			if err := checkRange("HM", "p2", int64(*p2), -4294967, 4294967); err != nil {
				return err
			}
			body += fmt.Sprintf(",%d", *p2)
		}
	}
	_, err := d.driver.Transfer(body, true)
	return err
}

// StepperMove issues SM,ms,s1[,s2]: a straight move or dwell over
// durationMs milliseconds.
func (d *Device) StepperMove(ctx context.Context, durationMs int, s1, s2 int32) error {
	if err := checkRange("SM", "ms", int64(durationMs), 1, 16_777_215); err != nil {
		return err
	}
	if err := checkRange("SM", "s1", int64(s1), -16_777_215, 16_777_215); err != nil {
		return err
	}
	if err := checkRange("SM", "s2", int64(s2), -16_777_215, 16_777_215); err != nil {
		return err
	}
	_, err := d.driver.Transfer(fmt.Sprintf("SM,%d,%d,%d", durationMs, s1, s2), true)
	return err
}

// MixedMove issues XM,ms,sA,sB: a CoreXY move where the device itself
// computes s1=sA+sB, s2=sA-sB.
func (d *Device) MixedMove(ctx context.Context, durationMs int, dA, dB int32) error {
	if err := checkRange("XM", "ms", int64(durationMs), 1, 16_777_215); err != nil {
		return err
	}
	if err := checkRange("XM", "sA", int64(dA), -16_777_215, 16_777_215); err != nil {
		return err
	}
	if err := checkRange("XM", "sB", int64(dB), -16_777_215, 16_777_215); err != nil {
		return err
	}
	_, err := d.driver.Transfer(fmt.Sprintf("XM,%d,%d,%d", durationMs, dA, dB), true)
	return err
}

// LowLevelMove issues LM,r1,s1,a1,r2,s2,a2[,clr]: the accel-aware
// streaming move. Exposed for completeness (spec.md §11/original
// source parity) but intentionally unused by stepper.NativeExecutor
// and stepper.SampledExecutor — original_source/src/axidraw.rs never
// calls it either, preferring SM/XM.
func (d *Device) LowLevelMove(ctx context.Context, r1 uint32, s1 int32, a1 int32, r2 uint32, s2 int32, a2 int32, clearStepCounters int) error {
	if err := checkRange("LM", "clr", int64(clearStepCounters), 0, 3); err != nil {
		return err
	}
	body := fmt.Sprintf("LM,%d,%d,%d,%d,%d,%d,%d", r1, s1, a1, r2, s2, a2, clearStepCounters)
	_, err := d.driver.Transfer(body, true)
	return err
}

// EnableMotors sets per-motor enable and the global microstep mode.
func (d *Device) EnableMotors(ctx context.Context, mode MicrostepMode) error {
	e1, ok := emStepMode[mode]
	if !ok {
		return &InvalidCommandError{Command: "EM", Reason: "unknown microstep mode"}
	}
	if _, err := d.driver.Transfer(fmt.Sprintf("EM,%d,1", e1), true); err != nil {
		return err
	}
	d.State.Motor1Enabled = true
	d.State.Motor2Enabled = true
	d.State.StepMode = mode
	return nil
}

// DisableMotors de-energizes both motors (EM,0,0).
func (d *Device) DisableMotors(ctx context.Context) error {
	if _, err := d.driver.Transfer("EM,0,0", true); err != nil {
		return err
	}
	d.State.Motor1Enabled = false
	d.State.Motor2Enabled = false
	return nil
}

// Abort issues ES[,1]: immediate stop, optionally also disabling
// motors and clearing the cached enable flags.
func (d *Device) Abort(ctx context.Context, alsoDisable bool) error {
	body := "ES"
	if alsoDisable {
		body = "ES,1"
	}
	if _, err := d.driver.Transfer(body, true); err != nil {
		return err
	}
	if alsoDisable {
		d.State.Motor1Enabled = false
		d.State.Motor2Enabled = false
	}
	return nil
}

// MotorStatus parses a QM reply: "QM,cmd,m1mov,m2mov,fifo".
type MotorStatus struct {
	CommandExecuting bool
	Motor1Moving     bool
	Motor2Moving     bool
	FIFOStatus       int
}

// QueryMotorStatus issues QM (no OK terminator expected).
func (d *Device) QueryMotorStatus(ctx context.Context) (MotorStatus, error) {
	resp, err := d.driver.Transfer("QM", false)
	if err != nil {
		return MotorStatus{}, err
	}
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) != 5 || fields[0] != "QM" {
		return MotorStatus{}, &InvalidResponseError{Command: "QM", Response: resp, Reason: "expected QM,cmd,m1mov,m2mov,fifo"}
	}
	ints := make([]int, 4)
	for i, f := range fields[1:] {
		v, convErr := strconv.Atoi(f)
		if convErr != nil {
			return MotorStatus{}, &InvalidResponseError{Command: "QM", Response: resp, Reason: "non-numeric field"}
		}
		ints[i] = v
	}
	return MotorStatus{
		CommandExecuting: ints[0] != 0,
		Motor1Moving:     ints[1] != 0,
		Motor2Moving:     ints[2] != 0,
		FIFOStatus:       ints[3],
	}, nil
}

// StepPosition issues QS and returns the two signed step counters.
func (d *Device) StepPosition(ctx context.Context) (int32, int32, error) {
	resp, err := d.driver.Transfer("QS", true)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) != 2 {
		return 0, 0, &InvalidResponseError{Command: "QS", Response: resp, Reason: "expected two counters"}
	}
	a, err1 := strconv.ParseInt(fields[0], 10, 32)
	b, err2 := strconv.ParseInt(fields[1], 10, 32)
	if err1 != nil || err2 != nil {
		return 0, 0, &InvalidResponseError{Command: "QS", Response: resp, Reason: "non-numeric counter"}
	}
	return int32(a), int32(b), nil
}

// ReadPin issues PI,port,pin (no OK terminator) and returns the
// digital level.
func (d *Device) ReadPin(ctx context.Context, port byte, pin int) (bool, error) {
	if err := validatePort(port); err != nil {
		return false, err
	}
	if err := checkRange("PI", "pin", int64(pin), 0, 7); err != nil {
		return false, err
	}
	resp, err := d.driver.Transfer(fmt.Sprintf("PI,%c,%d", port, pin), false)
	if err != nil {
		return false, err
	}
	fields := strings.Split(strings.TrimSpace(resp), ",")
	last := fields[len(fields)-1]
	switch last {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, &InvalidResponseError{Command: "PI", Response: resp, Reason: "expected 0 or 1"}
	}
}

// PinDirection configures a pin as input (dir=0) or output (dir=1).
func (d *Device) PinDirection(ctx context.Context, port byte, pin, dir int) error {
	if err := validatePort(port); err != nil {
		return err
	}
	if err := checkRange("PD", "pin", int64(pin), 0, 7); err != nil {
		return err
	}
	if err := checkRange("PD", "dir", int64(dir), 0, 1); err != nil {
		return err
	}
	_, err := d.driver.Transfer(fmt.Sprintf("PD,%c,%d,%d", port, pin, dir), true)
	return err
}

// Nickname sets the device's stored label (ST,name), max 16 ASCII
// characters.
func (d *Device) Nickname(ctx context.Context, name string) error {
	if len(name) > 16 {
		return &InvalidValueError{Parameter: "ST.name", Value: int64(len(name))}
	}
	_, err := d.driver.Transfer("ST,"+name, true)
	return err
}

// PenToggle issues TP: flips the pen between up and down, mirroring
// device.rs's exposure of the command even though axidraw.rs drives
// pen motion exclusively through SP.
func (d *Device) PenToggle(ctx context.Context, durationMS int) error {
	body := "TP"
	if durationMS != 0 {
		if err := checkRange("TP", "dur", int64(durationMS), 1, 65535); err != nil {
			return err
		}
		body = fmt.Sprintf("TP,%d", durationMS)
	}
	if _, err := d.driver.Transfer(body, true); err != nil {
		return err
	}
	d.State.IsLowered = !d.State.IsLowered
	return nil
}

func validatePort(port byte) error {
	if port < 'A' || port > 'E' {
		return &InvalidCommandError{Command: "PI/PD", Reason: fmt.Sprintf("port %q out of range A..E", string(port))}
	}
	return nil
}

// Close closes the underlying serial port.
func (d *Device) Close() error {
	return d.port.Close()
}
