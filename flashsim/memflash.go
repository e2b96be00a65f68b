package flashsim

import (
	"fmt"
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
)

// MemFlash - In-memory NOR flash covering the absolute address window [base, base+size)
type MemFlash struct {
	memory     []byte
	base       uint32
	sectorSize int

	beginErr       error
	failingSectors map[uint32]error
	failingReads   map[uint32]error
	stuckCells     map[uint32]byte

	// Programs - Number of WriteBuffer calls
	Programs int
	// Erases - Number of successful EraseSector calls
	Erases int
	// EraseLog - Addresses of every EraseSector call, successful or not
	EraseLog []uint32
	// Syncs - Number of SyncBlocks calls
	Syncs int
}

var _ interfaces.FlashDevice = (*MemFlash)(nil)

// NewMemFlash - Returns a pointer to a new erased MemFlash. Size and base must be multiples of sectorSize.
func NewMemFlash(base uint32, size, sectorSize int) (flash *MemFlash, err error) {
	if sectorSize <= 0 || size <= 0 || size%sectorSize != 0 || int(base%uint32(sectorSize)) != 0 {
		err = fmt.Errorf("flash window 0x%X+%d is not aligned to sector size %d", base, size, sectorSize)
		return
	}

	flash = &MemFlash{
		memory:         make([]byte, size),
		base:           base,
		sectorSize:     sectorSize,
		failingSectors: make(map[uint32]error),
		failingReads:   make(map[uint32]error),
		stuckCells:     make(map[uint32]byte),
	}
	for i := range flash.memory {
		flash.memory[i] = conf.ErasedByte
	}

	return
}

// FailBegin - Makes Begin return err
func (M *MemFlash) FailBegin(err error) {
	M.beginErr = err
}

// FailSector - Makes EraseSector at sectorAddress return err
func (M *MemFlash) FailSector(sectorAddress uint32, err error) {
	M.failingSectors[sectorAddress] = err
}

// FailRead - Makes every read covering address return err
func (M *MemFlash) FailRead(address uint32, err error) {
	M.failingReads[address] = err
}

// StickCell - Makes the byte at address always read value, ignoring programs and erases
func (M *MemFlash) StickCell(address uint32, value byte) {
	M.stuckCells[address] = value
}

// Bytes - Returns a copy of n bytes starting at address, bypassing stuck cells
func (M *MemFlash) Bytes(address uint32, n int) []byte {
	b := make([]byte, n)
	copy(b, M.memory[address-M.base:])

	return b
}

// Begin - Returns the error set by FailBegin, if any
func (M *MemFlash) Begin() error {
	return M.beginErr
}

// ReadBuffer - Reads len(buf) bytes at address
func (M *MemFlash) ReadBuffer(address uint32, buf []byte) (err error) {
	if err = M.checkWindow(address, len(buf)); err != nil {
		return
	}

	for i := range buf {
		if err = M.failingReads[address+uint32(i)]; err != nil {
			return
		}
	}

	copy(buf, M.memory[address-M.base:])
	for i := range buf {
		if v, ok := M.stuckCells[address+uint32(i)]; ok {
			buf[i] = v
		}
	}

	return
}

// WriteBuffer - Programs buf at address, clearing bits only
func (M *MemFlash) WriteBuffer(address uint32, buf []byte) (err error) {
	if err = M.checkWindow(address, len(buf)); err != nil {
		return
	}

	offset := address - M.base
	for i, v := range buf {
		M.memory[offset+uint32(i)] &= v
	}
	M.Programs++

	return
}

// Read8 - Reads a single byte at address
func (M *MemFlash) Read8(address uint32) (value byte, err error) {
	buf := make([]byte, 1)
	err = M.ReadBuffer(address, buf)
	value = buf[0]

	return
}

// EraseSector - Resets the sector starting at address to 0xFF
func (M *MemFlash) EraseSector(address uint32) (err error) {
	M.EraseLog = append(M.EraseLog, address)
	if err = M.checkWindow(address, M.sectorSize); err != nil {
		return
	}
	if int(address%uint32(M.sectorSize)) != 0 {
		err = fmt.Errorf("address 0x%06X is not a sector start", address)
		return
	}
	if err = M.failingSectors[address]; err != nil {
		return
	}

	offset := address - M.base
	for i := uint32(0); i < uint32(M.sectorSize); i++ {
		M.memory[offset+i] = conf.ErasedByte
	}
	M.Erases++

	return
}

// SyncBlocks - Nothing is buffered, only counted
func (M *MemFlash) SyncBlocks() error {
	M.Syncs++
	return nil
}

// ResetCounters - Zeroes the operation counters and the erase log
func (M *MemFlash) ResetCounters() {
	M.Programs = 0
	M.Erases = 0
	M.Syncs = 0
	M.EraseLog = nil
}

// checkWindow - Returns an error if n bytes from address are not inside the flash window
func (M *MemFlash) checkWindow(address uint32, n int) (err error) {
	if address < M.base || uint64(address-M.base)+uint64(n) > uint64(len(M.memory)) {
		err = fmt.Errorf("flash access 0x%06X length %d outside 0x%06X-0x%06X", address, n, M.base, M.base+uint32(len(M.memory)))
	}

	return
}
