package interfaces

// FlashDevice - Interface for an external NOR flash device, such as a QSPI flash chip, that the emulated EEPROM is
// carved out of. Addresses are absolute device addresses.
//
// Flash semantics apply: a program operation can only clear bits (1 -> 0), and bits can only be restored (0 -> 1)
// by erasing the containing sector. The emulation engine relies on this and never assumes bytes can be freely
// overwritten.
type FlashDevice interface {
	// Begin - Probes and initializes the device
	Begin() error

	// ReadBuffer - Reads len(buf) bytes starting at addr into buf
	ReadBuffer(addr uint32, buf []byte) error

	// WriteBuffer - Programs buf starting at addr. Writes may be buffered by the device until SyncBlocks is called.
	WriteBuffer(addr uint32, buf []byte) error

	// Read8 - Reads a single byte at addr
	Read8(addr uint32) (byte, error)

	// EraseSector - Erases the sector starting at addr, resetting every byte in it to 0xFF
	EraseSector(addr uint32) error

	// SyncBlocks - Flushes any buffered writes to the device
	SyncBlocks() error
}

// NativeEEPROM - Interface for a true byte addressable EEPROM driver, such as on-chip EEPROM of AVR class parts.
// Every method maps 1:1 onto the driver, indexes are EEPROM offsets starting at 0 (zero).
type NativeEEPROM interface {
	// Read - Reads the byte at idx
	Read(idx int) byte

	// Write - Writes value at idx unconditionally
	Write(idx int, value byte)

	// Update - Writes value at idx only if it differs from what is stored
	Update(idx int, value byte)

	// Length - Returns the size of the EEPROM in bytes
	Length() int
}
