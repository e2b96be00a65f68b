package eepromshim

import (
	"encoding/binary"
	"fmt"
	"github.com/gostonefire/eepromshim/internal/conf"
)

// Configuration - A versioned configuration record.
//   - Version is the version tag, persisted as the first byte of the record
//   - Payload is the application settings, persisted right after the version using the encoding/binary layout
//   - Loaded is true if the record was read from storage with a matching version, it is never persisted
type Configuration[T any] struct {
	Version uint8
	Payload T
	Loaded  bool
}

// record - Persisted layout of a Configuration
type record[T any] struct {
	Version uint8
	Payload T
}

// StoreConf - Settings for a ConfigStore
//   - Address is the EEPROM offset of the record
//   - Version is the expected version tag, 0 (zero) means the default 1
//   - Defaults returns the payload used when no valid record is stored, nil means the zero value of T
type StoreConf[T any] struct {
	Address  int
	Version  uint8
	Defaults func() T
}

// ConfigStore - Loads, saves and wipes one versioned Configuration record at a fixed offset of a Shim
type ConfigStore[T any] struct {
	shim     *Shim
	address  int
	version  uint8
	defaults func() T
	size     int
}

// NewConfigStore - Returns a pointer to a new ConfigStore. T must have a fixed size and the record must fit in the
// shim's address space.
func NewConfigStore[T any](shim *Shim, storeConf StoreConf[T]) (store *ConfigStore[T], err error) {
	if shim == nil {
		err = fmt.Errorf("shim can not be nil")
		return
	}

	size := binary.Size(record[T]{})
	if size < 0 {
		var t T
		err = fmt.Errorf("configuration payload %T has no fixed size", t)
		return
	}
	if storeConf.Address < 0 || storeConf.Address+size > shim.Length() {
		err = fmt.Errorf("configuration record of %d bytes at 0x%04X does not fit in %d bytes", size, storeConf.Address, shim.Length())
		return
	}

	version := storeConf.Version
	if version == 0 {
		version = conf.DefaultConfigVersion
	}

	store = &ConfigStore[T]{
		shim:     shim,
		address:  storeConf.Address,
		version:  version,
		defaults: storeConf.Defaults,
		size:     size,
	}

	return
}

// Size - Returns the number of bytes the record occupies in storage
func (C *ConfigStore[T]) Size() int {
	return C.size
}

// Version - Returns the expected version tag
func (C *ConfigStore[T]) Version() uint8 {
	return C.version
}

// Defaults - Returns a default Configuration carrying the expected version
func (C *ConfigStore[T]) Defaults() Configuration[T] {
	var payload T
	if C.defaults != nil {
		payload = C.defaults()
	}

	return Configuration[T]{Version: C.version, Payload: payload}
}

// Init - Initializes the storage device, logs a map of the contents with FlagDump, and loads the configuration.
// A device that fails to initialize is logged and loading proceeds anyway.
func (C *ConfigStore[T]) Init(flags Flags) Configuration[T] {
	C.shim.Begin(flags)
	if flags.Has(FlagDump) {
		C.shim.DumpSample(256)
	}

	return C.Load(flags)
}

// Load - Reads the stored record. If its version matches, it is returned with Loaded set. Otherwise the defaults are
// returned with Loaded unset, and with FlagInit the flash is health checked (and erased if failing) and the defaults
// are persisted first.
func (C *ConfigStore[T]) Load(flags Flags) Configuration[T] {
	var stored record[T]
	Get(C.shim, C.address, &stored)

	if stored.Version == C.version {
		if !flags.Has(FlagSilent) {
			C.shim.Status(true)
		}
		return Configuration[T]{Version: stored.Version, Payload: stored.Payload, Loaded: true}
	}

	defaults := C.Defaults()
	if flags.Has(FlagInit) {
		C.shim.CheckFlash(flags | FlagInit)
		C.Save(defaults, flags)
	}
	if !flags.Has(FlagSilent) {
		C.shim.Status(false)
	}

	return defaults
}

// Save - Persists config unconditionally. The version is written as given, it is up to the caller to set it.
func (C *ConfigStore[T]) Save(config Configuration[T], flags Flags) {
	r := record[T]{Version: config.Version, Payload: config.Payload}
	Put(C.shim, C.address, &r)

	if !flags.Has(FlagSilent) {
		C.shim.logger.Info("config saved to EEPROM")
	}
}

// Wipe - Invalidates the stored record by updating every byte of it to 0xFF, so the next Load falls back to defaults
func (C *ConfigStore[T]) Wipe(flags Flags) {
	for i := C.address; i < C.address+C.size; i++ {
		C.shim.Update(i, conf.ErasedByte)
	}

	if !flags.Has(FlagSilent) {
		C.shim.logger.Info("config wiped from EEPROM")
	}
}
