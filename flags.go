package eepromshim

// Flags - Bit set modifying shim operations
type Flags uint8

const (
	// FlagNone - No modifiers
	FlagNone Flags = 0x00
	// FlagInit - Persist defaults when no valid configuration is found, and erase the region if the flash health
	// check fails
	FlagInit Flags = 0x01
	// FlagDump - Log a map of the EEPROM contents during Init
	FlagDump Flags = 0x02
	// FlagForce - Allow overwriting existing export files
	FlagForce Flags = 0x08
	// FlagSilent - Suppress status logging
	FlagSilent Flags = 0x80
)

// Has - Returns true if every bit of flag is set
func (F Flags) Has(flag Flags) bool {
	return F&flag == flag
}
