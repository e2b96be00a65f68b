package eeerr

import "fmt"

// OutOfRange - Custom error to inform that an index, or an index plus a length, falls outside the EEPROM address space
type OutOfRange struct {
	Index  int
	Length int
	Size   int
}

// Error - Used to notify that an access was outside the address space
func (E OutOfRange) Error() string {
	if E.Length > 1 {
		return fmt.Sprintf("address 0x%04X length %d out of range, size is %d", E.Index, E.Length, E.Size)
	}
	return fmt.Sprintf("address 0x%04X out of range, size is %d", E.Index, E.Size)
}

// DeviceNotReady - Custom error to inform that the storage device could not be initialized
type DeviceNotReady struct {
	msg string
}

// NewDeviceNotReady - Returns a DeviceNotReady error with a custom message
func NewDeviceNotReady(msg string) DeviceNotReady {
	return DeviceNotReady{msg: msg}
}

// Error - Used to notify that the device failed to initialize
func (D DeviceNotReady) Error() string {
	if D.msg == "" {
		return "failed to initialize flash device"
	}
	return D.msg
}

// SectorEraseFailed - Custom error to inform that a flash sector failed to erase
type SectorEraseFailed struct {
	Address uint32
	Err     error
}

// Error - Used to notify which sector failed to erase
func (S SectorEraseFailed) Error() string {
	if S.Err == nil {
		return fmt.Sprintf("failed to erase flash sector at 0x%06X", S.Address)
	}
	return fmt.Sprintf("failed to erase flash sector at 0x%06X: %s", S.Address, S.Err)
}

// Unwrap - Returns the underlying device error, if any
func (S SectorEraseFailed) Unwrap() error {
	return S.Err
}

// NotAnEEPROMFile - Custom error to inform that a text file lacks the EEPROM export header
type NotAnEEPROMFile struct {
	msg string
}

// Error - Used to notify that a file is not an EEPROM export
func (N NotAnEEPROMFile) Error() string {
	if N.msg == "" {
		return "not an EEPROM file"
	}
	return N.msg
}
