//go:build windows

package ebb

import (
	"fmt"
	"syscall"
	"unsafe"
)

const (
	genericRead  = 0x80000000
	genericWrite = 0x40000000
	openExisting = 3

	noParity   = 0
	oneStopBit = 0

	purgeTXAbort = 0x0001
	purgeRXAbort = 0x0002
	purgeTXClear = 0x0004
	purgeRXClear = 0x0008

	dtrControlEnable = 0x01
)

// SerialPort is a Windows COM port configured for the EBB's fixed
// 115200 8-N-1 link. Grounded on dxl's serial_windows.go, narrowed to
// the EBB's single fixed baud rate and DTR-assert-on-open requirement.
type SerialPort struct {
	handle syscall.Handle
}

type dcb struct {
	DCBlength  uint32
	BaudRate   uint32
	Flags      uint32
	wReserved  uint16
	XonLim     uint16
	XoffLim    uint16
	ByteSize   byte
	Parity     byte
	StopBits   byte
	XonChar    byte
	XoffChar   byte
	ErrorChar  byte
	EofChar    byte
	EvtChar    byte
	wReserved1 uint16
}

type commTimeouts struct {
	ReadIntervalTimeout         uint32
	ReadTotalTimeoutMultiplier  uint32
	ReadTotalTimeoutConstant    uint32
	WriteTotalTimeoutMultiplier uint32
	WriteTotalTimeoutConstant   uint32
}

var (
	modkernel32         = syscall.NewLazyDLL("kernel32.dll")
	procGetCommState    = modkernel32.NewProc("GetCommState")
	procSetCommState    = modkernel32.NewProc("SetCommState")
	procSetCommTimeouts = modkernel32.NewProc("SetCommTimeouts")
	procSetupComm       = modkernel32.NewProc("SetupComm")
	procPurgeComm       = modkernel32.NewProc("PurgeComm")
)

// OpenSerial opens the named COM port and configures it for the EBB
// wire protocol, asserting DTR as the device expects on connect.
func OpenSerial(portName string) (*SerialPort, error) {
	path, err := syscall.UTF16PtrFromString(`\\.\` + portName)
	if err != nil {
		return nil, err
	}

	handle, err := syscall.CreateFile(path, genericRead|genericWrite, 0, nil, openExisting, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("ebb: CreateFile: %w", err)
	}

	sp := &SerialPort{handle: handle}
	if err := sp.configure(); err != nil {
		sp.Close()
		return nil, err
	}
	if err := sp.setTimeouts(); err != nil {
		sp.Close()
		return nil, err
	}
	return sp, nil
}

func (sp *SerialPort) configure() error {
	var state dcb
	state.DCBlength = uint32(unsafe.Sizeof(state))

	if r1, _, e1 := procGetCommState.Call(uintptr(sp.handle), uintptr(unsafe.Pointer(&state))); r1 == 0 {
		return fmt.Errorf("ebb: GetCommState: %w", e1)
	}

	state.BaudRate = DefaultBaudRate
	state.ByteSize = 8
	state.Parity = noParity
	state.StopBits = oneStopBit
	state.Flags = 1 | dtrControlEnable<<4 // fBinary, fDtrControl

	if r1, _, e1 := procSetCommState.Call(uintptr(sp.handle), uintptr(unsafe.Pointer(&state))); r1 == 0 {
		return fmt.Errorf("ebb: SetCommState: %w", e1)
	}

	procSetupComm.Call(uintptr(sp.handle), 4096, 4096)
	procPurgeComm.Call(uintptr(sp.handle), uintptr(purgeTXAbort|purgeRXAbort|purgeTXClear|purgeRXClear))
	return nil
}

func (sp *SerialPort) setTimeouts() error {
	timeouts := commTimeouts{
		ReadIntervalTimeout:      0xFFFFFFFF,
		ReadTotalTimeoutConstant: uint32(DefaultReadTimeout.Milliseconds()),
		WriteTotalTimeoutConstant: 50,
	}
	if r1, _, e1 := procSetCommTimeouts.Call(uintptr(sp.handle), uintptr(unsafe.Pointer(&timeouts))); r1 == 0 {
		return fmt.Errorf("ebb: SetCommTimeouts: %w", e1)
	}
	return nil
}

func (sp *SerialPort) Read(b []byte) (int, error) {
	var n uint32
	err := syscall.ReadFile(sp.handle, b, &n, nil)
	return int(n), err
}

func (sp *SerialPort) Write(b []byte) (int, error) {
	var n uint32
	err := syscall.WriteFile(sp.handle, b, &n, nil)
	return int(n), err
}

func (sp *SerialPort) Close() error {
	return syscall.CloseHandle(sp.handle)
}
