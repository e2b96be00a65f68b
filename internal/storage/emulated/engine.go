package emulated

import (
	"fmt"
	"github.com/gostonefire/eepromshim/eeerr"
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/metrics"
	"github.com/gostonefire/eepromshim/internal/span"
	"github.com/gostonefire/eepromshim/internal/storage"
	"github.com/gostonefire/eepromshim/internal/utils"
)

// EngineConf - Configuration of a flash emulation engine
//   - Device is the flash device the emulated EEPROM lives in
//   - BaseAddress is the absolute flash address of EEPROM offset 0 (zero)
//   - Size is the size of the emulated address space in bytes
//   - SectorSize is the erase sector size of the device
//   - Metrics is an optional collector for device traffic
type EngineConf struct {
	Device      interfaces.FlashDevice
	BaseAddress uint32
	Size        int
	SectorSize  int
	Metrics     *metrics.Collector
}

// Engine - Makes a block erase flash device behave like byte addressable EEPROM.
//
// Writes that only clear bits are programmed directly. Writes that need any bit to go from 0 to 1 are done as a
// read-modify-erase-program of each affected sector, so unrelated bytes sharing the sector keep their values.
type Engine struct {
	device      interfaces.FlashDevice
	baseAddress uint32
	size        int
	sectorSize  int
	metrics     *metrics.Collector
}

var _ storage.Backend = (*Engine)(nil)

// NewEngine - Returns a pointer to a new Engine given an EngineConf. Zero Size and SectorSize fall back to defaults.
func NewEngine(engineConf EngineConf) (engine *Engine, err error) {
	if engineConf.Device == nil {
		err = fmt.Errorf("flash device can not be nil")
		return
	}
	if engineConf.Size == 0 {
		engineConf.Size = conf.DefaultSize
	}
	if engineConf.SectorSize == 0 {
		engineConf.SectorSize = conf.DefaultSectorSize
	}
	if engineConf.Size < 0 {
		err = fmt.Errorf("size must be a positive value higher than 0 (zero)")
		return
	}
	if engineConf.SectorSize < 0 {
		err = fmt.Errorf("sector size must be a positive value higher than 0 (zero)")
		return
	}
	if uint64(engineConf.BaseAddress)+uint64(engineConf.Size) > 1<<32 {
		err = fmt.Errorf("region 0x%X + %d does not fit a 32 bit flash address space", engineConf.BaseAddress, engineConf.Size)
		return
	}

	engine = &Engine{
		device:      engineConf.Device,
		baseAddress: engineConf.BaseAddress,
		size:        engineConf.Size,
		sectorSize:  engineConf.SectorSize,
		metrics:     engineConf.Metrics,
	}

	return
}

// Begin - Probes and initializes the flash device
func (E *Engine) Begin() (err error) {
	if err = E.device.Begin(); err != nil {
		err = eeerr.NewDeviceNotReady(fmt.Sprintf("failed to initialize flash device: %s", err))
	}

	return
}

// Length - Returns the size of the emulated address space
func (E *Engine) Length() int {
	return E.size
}

// SectorsNeeded - Returns the number of erase sectors spanning the emulated address space
func (E *Engine) SectorsNeeded() int {
	return utils.CeilDiv(E.size, E.sectorSize)
}

// ReadByte - Reads the byte at idx. Out of range indexes return 0xFF without touching the device.
func (E *Engine) ReadByte(idx int) (value byte, err error) {
	value = conf.ErasedByte
	if err = storage.CheckRange(idx, 1, E.size); err != nil {
		return
	}

	value, err = E.device.Read8(E.address(idx))
	if err != nil {
		value = conf.ErasedByte
		err = fmt.Errorf("error while reading flash at 0x%06X: %w", E.address(idx), err)
	}

	return
}

// WriteByte - Writes value at idx and syncs the device. It always writes, even if the value is unchanged.
func (E *Engine) WriteByte(idx int, value byte) (err error) {
	return E.WriteBuffer(idx, []byte{value})
}

// UpdateByte - Writes value at idx only if the stored value differs
func (E *Engine) UpdateByte(idx int, value byte) (err error) {
	if err = storage.CheckRange(idx, 1, E.size); err != nil {
		return
	}

	current, err := E.device.Read8(E.address(idx))
	if err != nil {
		err = fmt.Errorf("error while reading flash at 0x%06X: %w", E.address(idx), err)
		return
	}
	if current == value {
		E.metrics.SkippedUpdate()
		return
	}

	return E.WriteBuffer(idx, []byte{value})
}

// ReadBuffer - Fills buf from the flash starting at idx. The whole span must be inside the address space.
func (E *Engine) ReadBuffer(idx int, buf []byte) (err error) {
	if err = storage.CheckRange(idx, len(buf), E.size); err != nil {
		return
	}

	if err = E.device.ReadBuffer(E.address(idx), buf); err != nil {
		err = fmt.Errorf("error while reading %d bytes from flash at 0x%06X: %w", len(buf), E.address(idx), err)
	}

	return
}

// WriteBuffer - Writes buf to the flash starting at idx and syncs the device. The whole span must be inside the
// address space, otherwise nothing is written.
func (E *Engine) WriteBuffer(idx int, buf []byte) (err error) {
	if err = storage.CheckRange(idx, len(buf), E.size); err != nil {
		return
	}

	chunks := span.NewChunks(E.address(idx), len(buf), E.sectorSize)
	var chunk span.Chunk
	for chunks.HasNext() {
		chunk, err = chunks.Next()
		if err != nil {
			return
		}
		if err = E.program(chunk, buf[chunk.Offset:chunk.Offset+chunk.Length]); err != nil {
			return
		}
	}

	return E.sync()
}

// EraseFlash - Erases every sector spanning the emulated address space. It stops at the first sector that fails
// to erase, sectors erased before that stay erased.
func (E *Engine) EraseFlash() (err error) {
	for i := 0; i < E.SectorsNeeded(); i++ {
		sectorAddress := E.baseAddress + uint32(i*E.sectorSize)
		if eraseErr := E.device.EraseSector(sectorAddress); eraseErr != nil {
			err = eeerr.SectorEraseFailed{Address: sectorAddress, Err: eraseErr}
			return
		}
		E.metrics.Erase()
	}

	return
}

// CheckFlash - Writes 0xAA to the last byte of the address space and reads it back. On success the original value
// is written back. On failure the original value is not restored, and if init is true the region is erased.
// If the original value can not be read the check stops there, reporting failure without writing anything.
func (E *Engine) CheckFlash(init bool) (ok bool, err error) {
	probeIdx := E.size - 1

	initial, err := E.ReadByte(probeIdx)
	if err != nil {
		err = fmt.Errorf("unable to read byte before health check: %w", err)
		return
	}

	// A failing probe write or read back shows up as a mismatch
	_ = E.WriteByte(probeIdx, conf.HealthProbeByte)
	readBack, _ := E.ReadByte(probeIdx)

	if readBack != conf.HealthProbeByte {
		if init {
			if err = E.EraseFlash(); err != nil {
				err = fmt.Errorf("recovery erase failed: %w", err)
			}
		}
		return
	}

	err = E.WriteByte(probeIdx, initial)
	ok = true

	return
}

// address - Returns the absolute flash address of idx
func (E *Engine) address(idx int) uint32 {
	return E.baseAddress + uint32(idx)
}

// program - Writes data covering exactly one chunk, rewriting the containing sector if bits have to be set
func (E *Engine) program(chunk span.Chunk, data []byte) (err error) {
	current := make([]byte, chunk.Length)
	if err = E.device.ReadBuffer(chunk.Address, current); err != nil {
		err = fmt.Errorf("error while reading flash at 0x%06X: %w", chunk.Address, err)
		return
	}

	if !utils.IsProgrammable(current, data) {
		return E.rewriteSector(chunk, data)
	}

	if err = E.device.WriteBuffer(chunk.Address, data); err != nil {
		err = fmt.Errorf("error while writing %d bytes to flash at 0x%06X: %w", len(data), chunk.Address, err)
		return
	}
	E.metrics.Program()

	return
}

// rewriteSector - Reads the whole sector containing chunk, patches in data, erases the sector and programs it back
func (E *Engine) rewriteSector(chunk span.Chunk, data []byte) (err error) {
	sector := make([]byte, E.sectorSize)
	if err = E.device.ReadBuffer(chunk.SectorAddress, sector); err != nil {
		err = fmt.Errorf("error while reading flash sector at 0x%06X: %w", chunk.SectorAddress, err)
		return
	}
	copy(sector[chunk.SectorOffset():], data)

	if eraseErr := E.device.EraseSector(chunk.SectorAddress); eraseErr != nil {
		err = eeerr.SectorEraseFailed{Address: chunk.SectorAddress, Err: eraseErr}
		return
	}
	E.metrics.Erase()

	if err = E.device.WriteBuffer(chunk.SectorAddress, sector); err != nil {
		err = fmt.Errorf("error while writing flash sector at 0x%06X: %w", chunk.SectorAddress, err)
		return
	}
	E.metrics.Program()
	E.metrics.SectorRewrite()

	return
}

// sync - Flushes buffered blocks of the device
func (E *Engine) sync() (err error) {
	if err = E.device.SyncBlocks(); err != nil {
		err = fmt.Errorf("error while syncing flash blocks: %w", err)
		return
	}
	E.metrics.Sync()

	return
}
