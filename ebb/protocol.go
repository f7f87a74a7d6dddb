package ebb

import (
	"fmt"
	"strings"
)

// maxCommandBytes is the wire-length ceiling from spec.md §4.5: the
// command plus its trailing CR must not exceed 256 bytes.
const maxCommandBytes = 256

// expectsOK reports whether wire, the command token before its first
// comma (e.g. "SM" out of "SM,20,100,0"), appends a trailing OK\r\n on
// success. The query family below replies with its payload only.
func expectsOK(wire string) bool {
	token := wire
	if idx := strings.IndexByte(wire, ','); idx >= 0 {
		token = wire[:idx]
	}
	switch token {
	case "V", "I", "A", "MR", "PI", "QM":
		return false
	default:
		return true
	}
}

// buildCommand validates and frames an ASCII command body (without the
// trailing CR) for transmission, returning the exact bytes to write.
func buildCommand(body string) ([]byte, error) {
	if body == "" {
		return nil, &InvalidCommandError{Command: body, Reason: "empty command"}
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c > 127 {
			return nil, &InvalidCommandError{Command: body, Reason: "non-ASCII byte"}
		}
		if c == '\r' || c == '\n' {
			return nil, &InvalidCommandError{Command: body, Reason: "embedded CR/LF"}
		}
	}
	framed := body + "\r"
	if len(framed) > maxCommandBytes {
		return nil, &InvalidCommandError{Command: body, Reason: fmt.Sprintf("framed length %d exceeds %d bytes", len(framed), maxCommandBytes)}
	}
	return []byte(framed), nil
}

// stripOK removes a trailing "OK\r\n" from a response payload,
// returning an error if it is missing.
func stripOK(command, response string) (string, error) {
	const suffix = "OK\r\n"
	if !strings.HasSuffix(response, suffix) {
		return "", &InvalidResponseError{Command: command, Response: response, Reason: "missing trailing OK"}
	}
	return strings.TrimSuffix(response, suffix), nil
}

func checkRange(command string, name string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return &InvalidValueError{Parameter: command + "." + name, Value: v}
	}
	return nil
}
