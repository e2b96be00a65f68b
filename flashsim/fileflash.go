package flashsim

import (
	"fmt"
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/file"
	"github.com/gostonefire/eepromshim/internal/utils"
	"os"
	"sort"
)

// FileFlash - NOR flash backed by an image file. Programs go to a write-back cache of whole sectors that is
// written to the file on SyncBlocks, erases go straight to the file.
type FileFlash struct {
	fileName string
	file     *os.File
	header   file.Header
	cache    map[uint32][]byte
}

var _ interfaces.FlashDevice = (*FileFlash)(nil)

// CreateFileFlash - Creates a new erased flash image of flashSize bytes. An existing file is overwritten.
func CreateFileFlash(fileName string, flashSize, sectorSize int) (flash *FileFlash, err error) {
	f, header, err := file.CreateNewImageFile(fileName, int64(flashSize), int64(sectorSize))
	if err != nil {
		return
	}

	flash = newFileFlash(fileName, f, header)

	return
}

// OpenFileFlash - Opens an existing flash image
func OpenFileFlash(fileName string) (flash *FileFlash, err error) {
	f, header, err := file.OpenImageFile(fileName)
	if err != nil {
		return
	}

	flash = newFileFlash(fileName, f, header)

	return
}

// newFileFlash - Returns a pointer to a new FileFlash around an open image file
func newFileFlash(fileName string, f *os.File, header file.Header) *FileFlash {
	return &FileFlash{
		fileName: fileName,
		file:     f,
		header:   header,
		cache:    make(map[uint32][]byte),
	}
}

// Size - Returns the flash size in bytes
func (F *FileFlash) Size() int {
	return int(F.header.FlashSize)
}

// SectorSize - Returns the erase sector size in bytes
func (F *FileFlash) SectorSize() int {
	return int(F.header.SectorSize)
}

// Begin - Checks that the image is open
func (F *FileFlash) Begin() error {
	if F.file == nil {
		return fmt.Errorf("flash image %s is closed", F.fileName)
	}
	return nil
}

// ReadBuffer - Reads len(buf) bytes at address, seeing programs not yet synced
func (F *FileFlash) ReadBuffer(address uint32, buf []byte) (err error) {
	if err = F.Begin(); err != nil {
		return
	}
	if err = file.ReadFlash(F.file, F.header, int64(address), buf); err != nil {
		return
	}

	sectorSize := uint32(F.header.SectorSize)
	for i := range buf {
		a := address + uint32(i)
		if sector, ok := F.cache[a-a%sectorSize]; ok {
			buf[i] = sector[a%sectorSize]
		}
	}

	return
}

// WriteBuffer - Programs buf at address into the sector cache, clearing bits only
func (F *FileFlash) WriteBuffer(address uint32, buf []byte) (err error) {
	if err = F.Begin(); err != nil {
		return
	}
	if int64(address)+int64(len(buf)) > F.header.FlashSize {
		err = fmt.Errorf("flash write at 0x%06X length %d outside image of size %d", address, len(buf), F.header.FlashSize)
		return
	}

	sectorSize := uint32(F.header.SectorSize)
	var sector []byte
	for i, v := range buf {
		a := address + uint32(i)
		sector, err = F.cachedSector(a - a%sectorSize)
		if err != nil {
			return
		}
		sector[a%sectorSize] &= v
	}

	return
}

// Read8 - Reads a single byte at address
func (F *FileFlash) Read8(address uint32) (value byte, err error) {
	buf := make([]byte, 1)
	err = F.ReadBuffer(address, buf)
	value = buf[0]

	return
}

// EraseSector - Resets the sector starting at address to 0xFF, dropping any cached programs for it
func (F *FileFlash) EraseSector(address uint32) (err error) {
	if err = F.Begin(); err != nil {
		return
	}
	if int64(address)%F.header.SectorSize != 0 {
		err = fmt.Errorf("address 0x%06X is not a sector start", address)
		return
	}

	delete(F.cache, address)
	err = file.WriteFlash(F.file, F.header, int64(address), utils.FilledByteSlice(int(F.header.SectorSize), conf.ErasedByte))

	return
}

// SyncBlocks - Writes every cached sector to the image file and syncs it
func (F *FileFlash) SyncBlocks() (err error) {
	if err = F.Begin(); err != nil {
		return
	}

	addresses := make([]uint32, 0, len(F.cache))
	for a := range F.cache {
		addresses = append(addresses, a)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	for _, a := range addresses {
		if err = file.WriteFlash(F.file, F.header, int64(a), F.cache[a]); err != nil {
			err = fmt.Errorf("error while flushing sector 0x%06X: %s", a, err)
			return
		}
		delete(F.cache, a)
	}

	return F.file.Sync()
}

// Close - Closes the image file. Programs not synced are lost.
func (F *FileFlash) Close() {
	file.CloseFile(F.file)
	F.file = nil
	F.cache = make(map[uint32][]byte)
}

// Remove - Closes and removes the image file
func (F *FileFlash) Remove() error {
	F.Close()
	return file.RemoveFile(F.fileName)
}

// cachedSector - Returns the cache entry for the sector at sectorAddress, loading it from file when missing
func (F *FileFlash) cachedSector(sectorAddress uint32) (sector []byte, err error) {
	sector, ok := F.cache[sectorAddress]
	if ok {
		return
	}

	sector = make([]byte, F.header.SectorSize)
	if err = file.ReadFlash(F.file, F.header, int64(sectorAddress), sector); err != nil {
		return
	}
	F.cache[sectorAddress] = sector

	return
}
