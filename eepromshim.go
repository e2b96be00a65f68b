package eepromshim

import (
	"fmt"
	"github.com/gostonefire/eepromshim/diag"
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/metrics"
	"github.com/gostonefire/eepromshim/internal/storage"
	"github.com/gostonefire/eepromshim/internal/storage/emulated"
	"github.com/gostonefire/eepromshim/internal/storage/native"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"strings"
)

// BackendEmulated - Name of the flash emulation backend
const BackendEmulated string = "emulated"

// BackendNative - Name of the native EEPROM backend
const BackendNative string = "native"

// Shim - Byte addressable persistent storage over either native EEPROM or an emulated EEPROM region in NOR flash.
// A Shim has exactly one backend, chosen by the constructor, and callers use the same methods regardless.
//
// A Shim is not safe for concurrent use, callers serialize their own access.
type Shim struct {
	backend     storage.Backend
	backendName string
	logger      hclog.Logger
}

// options - Settings collected from Option functions
type options struct {
	logger      hclog.Logger
	registerer  prometheus.Registerer
	baseAddress uint32
	size        int
	sectorSize  int
}

// Option - Functional option for NewEmulated and NewNative
type Option func(*options)

// WithLogger - Sets the logger status lines go to. Default is a null logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer - Registers device traffic counters on reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithBaseAddress - Sets the flash address of EEPROM offset 0 (zero), emulated backend only. Default is 0x100000.
func WithBaseAddress(address uint32) Option {
	return func(o *options) {
		o.baseAddress = address
	}
}

// WithSize - Sets the emulated EEPROM size in bytes, emulated backend only. Default is 4096.
func WithSize(size int) Option {
	return func(o *options) {
		o.size = size
	}
}

// WithSectorSize - Sets the flash erase sector size, emulated backend only. Default is 4096.
func WithSectorSize(sectorSize int) Option {
	return func(o *options) {
		o.sectorSize = sectorSize
	}
}

// defaultOptions - Returns options with defaults applied
func defaultOptions(opts []Option) options {
	o := options{
		baseAddress: conf.DefaultFlashBaseAddress,
		size:        conf.DefaultSize,
		sectorSize:  conf.DefaultSectorSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}

	return o
}

// NewEmulated - Returns a Shim emulating EEPROM in a region of a NOR flash device.
//   - device is the flash device, it is not initialized until Begin (or ConfigStore.Init) is called
//   - opts may set base address, size, sector size, logger and metrics registerer
//
// It returns:
//   - shim is a pointer to a Shim using the flash emulation engine
//   - err is a normal go Error which should be nil if everything went ok
func NewEmulated(device interfaces.FlashDevice, opts ...Option) (shim *Shim, err error) {
	o := defaultOptions(opts)

	collector, err := metrics.New(o.registerer, BackendEmulated)
	if err != nil {
		return
	}

	engine, err := emulated.NewEngine(emulated.EngineConf{
		Device:      device,
		BaseAddress: o.baseAddress,
		Size:        o.size,
		SectorSize:  o.sectorSize,
		Metrics:     collector,
	})
	if err != nil {
		err = fmt.Errorf("error while creating flash emulation engine: %s", err)
		return
	}

	shim = &Shim{
		backend:     engine,
		backendName: BackendEmulated,
		logger:      o.logger.Named("eeprom-qspi"),
	}

	return
}

// NewNative - Returns a Shim passing every primitive straight to a native EEPROM driver. The size is the one the
// driver reports, flash geometry options are ignored.
func NewNative(driver interfaces.NativeEEPROM, opts ...Option) (shim *Shim, err error) {
	o := defaultOptions(opts)

	collector, err := metrics.New(o.registerer, BackendNative)
	if err != nil {
		return
	}

	passthrough, err := native.NewPassthrough(driver, collector)
	if err != nil {
		return
	}

	shim = &Shim{
		backend:     passthrough,
		backendName: BackendNative,
		logger:      o.logger.Named("eeprom"),
	}

	return
}

// Backend - Returns the name of the active backend, BackendEmulated or BackendNative
func (S *Shim) Backend() string {
	return S.backendName
}

// Length - Returns the size of the EEPROM address space in bytes
func (S *Shim) Length() int {
	return S.backend.Length()
}

// Begin - Initializes the storage device. A failure is logged (unless FlagSilent) and reported as false, the shim
// stays usable.
func (S *Shim) Begin(flags Flags) bool {
	if err := S.backend.Begin(); err != nil {
		if !flags.Has(FlagSilent) {
			S.logger.Error("failed to initialize flash device", "error", err)
		}
		return false
	}

	return true
}

// Status - Logs whether a valid configuration was found and returns ok
func (S *Shim) Status(ok bool) bool {
	if ok {
		S.logger.Info("valid EEPROM config found, using existing values")
	} else {
		S.logger.Warn("no valid EEPROM config found, using defaults")
	}

	return ok
}

// DumpSample - Logs a map of the EEPROM contents squeezed into at most maxSamples characters
func (S *Shim) DumpSample(maxSamples int) {
	var sb strings.Builder
	if err := diag.DumpSample(&sb, S, maxSamples); err != nil {
		S.logger.Error("failed to dump EEPROM map", "error", err)
		return
	}

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		S.logger.Info(line)
	}
}
