package eepromshim

import "github.com/gostonefire/eepromshim/eeerr"

// OutOfRange - Returned by the Try* primitives when an index, or index plus length, is outside the address space
type OutOfRange = eeerr.OutOfRange

// DeviceNotReady - Returned when the flash device fails to initialize
type DeviceNotReady = eeerr.DeviceNotReady

// SectorEraseFailed - Returned when a flash sector fails to erase
type SectorEraseFailed = eeerr.SectorEraseFailed

// NotAnEEPROMFile - Returned by the text import when the input does not start with the EEPROM export header
type NotAnEEPROMFile = eeerr.NotAnEEPROMFile
