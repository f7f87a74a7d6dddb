//go:build linux

package ebb

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SerialPort is a Linux serial file descriptor configured for the
// EBB's fixed 115200 8-N-1 raw-mode link. Grounded on dxl's
// serial_linux.go, rebuilt on golang.org/x/sys/unix's Termios/IoctlSetTermios
// helpers instead of hand-rolled syscall.Syscall(SYS_IOCTL, ...) calls
// and guesswork CBAUD masks.
type SerialPort struct {
	fd int
}

// OpenSerial opens portName, asserts DTR, and configures the link for
// the EBB wire protocol (raw mode, no flow control, non-blocking reads
// governed by VMIN=0/VTIME=0 — the idle-based response-read loop in
// Driver owns the actual timeout).
func OpenSerial(portName string) (*SerialPort, error) {
	fd, err := unix.Open(portName, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("ebb: open %s: %w", portName, err)
	}

	sp := &SerialPort{fd: fd}
	if err := sp.configure(); err != nil {
		sp.Close()
		return nil, err
	}
	if err := sp.assertDTR(); err != nil {
		sp.Close()
		return nil, err
	}
	return sp, nil
}

func (sp *SerialPort) configure() error {
	term, err := unix.IoctlGetTermios(sp.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("ebb: TCGETS: %w", err)
	}

	term.Cflag &^= unix.CBAUD
	term.Cflag |= unix.B115200
	term.Cflag &^= unix.CSIZE
	term.Cflag |= unix.CS8
	term.Cflag &^= unix.PARENB
	term.Cflag &^= unix.CSTOPB
	term.Cflag |= unix.CLOCAL | unix.CREAD

	term.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ISIG
	term.Oflag &^= unix.OPOST
	term.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY
	term.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL

	term.Cc[unix.VMIN] = 0
	term.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(sp.fd, unix.TCSETS, term); err != nil {
		return fmt.Errorf("ebb: TCSETS: %w", err)
	}
	return nil
}

func (sp *SerialPort) assertDTR() error {
	bits, err := unix.IoctlGetInt(sp.fd, unix.TIOCMGET)
	if err != nil {
		return fmt.Errorf("ebb: TIOCMGET: %w", err)
	}
	bits |= unix.TIOCM_DTR
	if err := unix.IoctlSetPointerInt(sp.fd, unix.TIOCMSET, bits); err != nil {
		return fmt.Errorf("ebb: TIOCMSET: %w", err)
	}
	return nil
}

func (sp *SerialPort) Read(b []byte) (int, error) {
	n, err := unix.Read(sp.fd, b)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, nil
	}
	return n, err
}

func (sp *SerialPort) Write(b []byte) (int, error) {
	return unix.Write(sp.fd, b)
}

func (sp *SerialPort) Close() error {
	return unix.Close(sp.fd)
}
