package ebb

import (
	"strings"
	"time"
)

// readBufferSize is the scratch buffer size for each underlying Read
// call while accumulating a response.
const readBufferSize = 256

// Driver owns the raw request/response cycle against a serial port:
// write the framed command, then accumulate response bytes until the
// port goes idle (a Read returns zero bytes) or Timeout elapses.
// Grounded on dxl/driver.go's Transfer/readPacketWithTimeout, adapted
// from Dynamixel's binary framing to the EBB's idle-terminated ASCII
// replies.
type Driver struct {
	port    SerialPortInterface
	Timeout time.Duration
}

// NewDriver wraps port with the EBB's default idle-read timeout.
func NewDriver(port SerialPortInterface) *Driver {
	return &Driver{port: port, Timeout: DefaultReadTimeout}
}

// Transfer writes body framed as a command (validating it first) and
// reads back the raw response text. expectOK controls whether the
// caller wants the trailing "OK\r\n" verified and stripped.
func (d *Driver) Transfer(body string, expectOK bool) (string, error) {
	framed, err := buildCommand(body)
	if err != nil {
		return "", err
	}
	if _, err := d.port.Write(framed); err != nil {
		return "", &DeviceError{Command: body, Message: err.Error()}
	}

	response, err := d.readUntilIdle(body)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(response, "!") {
		return "", &DeviceError{Command: body, Message: strings.TrimSpace(response)}
	}
	if !expectOK {
		return response, nil
	}
	return stripOK(body, response)
}

// readUntilIdle accumulates bytes from the port until a Read returns
// zero bytes (idle) or Timeout elapses with no data at all.
func (d *Driver) readUntilIdle(command string) (string, error) {
	var sb strings.Builder
	tmp := make([]byte, readBufferSize)
	deadline := time.Now().Add(d.Timeout)

	for {
		n, err := d.port.Read(tmp)
		if err != nil {
			return sb.String(), &DeviceError{Command: "read", Message: err.Error()}
		}
		if n > 0 {
			sb.Write(tmp[:n])
			deadline = time.Now().Add(d.Timeout)
			continue
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
		if time.Now().After(deadline) {
			return "", &TimeoutError{Command: command}
		}
	}
}
