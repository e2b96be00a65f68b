package file

import (
	"encoding/binary"
	"github.com/gostonefire/eepromshim/internal/conf"
)

// Header - Represents the flash image file header data
type Header struct {
	Magic      string
	FlashSize  int64
	SectorSize int64
	FileSize   int64
}

// bytesToHeader - Converts a slice of bytes to a Header struct
func bytesToHeader(buf []byte) (header Header) {
	header = Header{
		Magic:      string(buf[conf.ImageMagicOffset : conf.ImageMagicOffset+int64(len(conf.ImageMagic))]),
		FlashSize:  int64(binary.LittleEndian.Uint64(buf[conf.ImageFlashSizeOffset:])),
		SectorSize: int64(binary.LittleEndian.Uint32(buf[conf.ImageSectorSizeOffset:])),
		FileSize:   int64(binary.LittleEndian.Uint64(buf[conf.ImageFileSizeOffset:])),
	}

	return
}

// headerToBytes - Converts a Header struct to a slice of bytes
func headerToBytes(header Header) (buf []byte) {
	// Create byte buffer
	buf = make([]byte, conf.ImageHeaderLength)

	copy(buf[conf.ImageMagicOffset:], conf.ImageMagic)
	binary.LittleEndian.PutUint64(buf[conf.ImageFlashSizeOffset:], uint64(header.FlashSize))
	binary.LittleEndian.PutUint32(buf[conf.ImageSectorSizeOffset:], uint32(header.SectorSize))
	binary.LittleEndian.PutUint64(buf[conf.ImageFileSizeOffset:], uint64(header.FileSize))

	return
}
