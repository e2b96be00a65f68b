package storage

import (
	"github.com/gostonefire/eepromshim/eeerr"
)

// Backend - Interface for any EEPROM storage implementation. Indexes are EEPROM offsets starting at 0 (zero) and
// every method validates them against Length before touching the device.
type Backend interface {
	// Begin - Initializes the underlying device
	Begin() (err error)
	// Length - Returns the size of the EEPROM address space in bytes
	Length() int
	// ReadByte - Returns the byte at idx, or the erased value 0xFF together with an error
	ReadByte(idx int) (value byte, err error)
	// WriteByte - Writes value at idx unconditionally and makes it durable before returning
	WriteByte(idx int, value byte) (err error)
	// UpdateByte - Writes value at idx only if it differs from the stored value
	UpdateByte(idx int, value byte) (err error)
	// ReadBuffer - Fills buf with the bytes starting at idx
	ReadBuffer(idx int, buf []byte) (err error)
	// WriteBuffer - Writes buf starting at idx unconditionally and makes it durable before returning
	WriteBuffer(idx int, buf []byte) (err error)
	// CheckFlash - Probes the storage by writing and reading back a sentinel at the last byte. If the probe fails
	// and init is true, the storage region is erased.
	CheckFlash(init bool) (ok bool, err error)
	// EraseFlash - Erases the whole storage region
	EraseFlash() (err error)
}

// CheckRange - Returns an error of type eeerr.OutOfRange if length bytes from idx do not fit in size
func CheckRange(idx, length, size int) (err error) {
	if idx < 0 || length < 0 || idx > size-length {
		err = eeerr.OutOfRange{Index: idx, Length: length, Size: size}
	}

	return
}
