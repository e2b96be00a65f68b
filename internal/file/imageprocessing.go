package file

import (
	"fmt"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/utils"
	"io"
	"os"
)

// GetHeader - Reads header data from file and returns it as a Header struct
func GetHeader(f *os.File) (header Header, err error) {
	buf := make([]byte, conf.ImageHeaderLength)
	_, err = f.ReadAt(buf, 0)
	if err != nil {
		return
	}

	header = bytesToHeader(buf)

	return
}

// SetHeader - Takes a Header struct and writes header data to file
func SetHeader(f *os.File, header Header) (err error) {
	buf := headerToBytes(header)

	_, err = f.WriteAt(buf, 0)

	return
}

// ReadFlash - Reads len(buf) bytes of flash data at address
func ReadFlash(f *os.File, header Header, address int64, buf []byte) (err error) {
	if address < 0 || address+int64(len(buf)) > header.FlashSize {
		err = fmt.Errorf("flash read at 0x%06X length %d outside image of size %d", address, len(buf), header.FlashSize)
		return
	}

	_, err = f.ReadAt(buf, conf.ImageHeaderLength+address)
	if err == io.EOF {
		err = fmt.Errorf("unexpected end of image file at 0x%06X", address)
	}

	return
}

// WriteFlash - Writes buf as flash data at address, the bytes are stored exactly as given
func WriteFlash(f *os.File, header Header, address int64, buf []byte) (err error) {
	if address < 0 || address+int64(len(buf)) > header.FlashSize {
		err = fmt.Errorf("flash write at 0x%06X length %d outside image of size %d", address, len(buf), header.FlashSize)
		return
	}

	_, err = f.WriteAt(buf, conf.ImageHeaderLength+address)

	return
}

// OpenImageFile - Opens the flash image file and does some rudimentary checks of its validity
func OpenImageFile(fileName string) (filePtr *os.File, header Header, err error) {
	if stat, ok := os.Stat(fileName); ok == nil {
		filePtr, err = os.OpenFile(fileName, os.O_RDWR, 0644)
		if err != nil {
			err = fmt.Errorf("unable to open existing flash image file: %s", err)
			return
		}

		header, err = GetHeader(filePtr)
		if err != nil {
			_ = filePtr.Close()
			filePtr = nil
			err = fmt.Errorf("unable to read header from flash image file: %s", err)
			return
		}

		if header.Magic != conf.ImageMagic {
			_ = filePtr.Close()
			filePtr = nil
			err = fmt.Errorf("file is not a flash image")
			return
		}

		if stat.Size() != header.FileSize {
			_ = filePtr.Close()
			filePtr = nil
			err = fmt.Errorf("actual file size doesn't conform with header indicated file size")
			return
		}
	} else {
		err = fmt.Errorf("flash image file not found: %w", ok)
		return
	}

	return
}

// CreateNewImageFile - Creates a new flash image file with every flash byte erased (0xFF). If it already exists it
// will first be truncated to zero length, hence deleting all existing data.
func CreateNewImageFile(fileName string, flashSize, sectorSize int64) (filePtr *os.File, header Header, err error) {
	if flashSize <= 0 || sectorSize <= 0 || flashSize%sectorSize != 0 {
		err = fmt.Errorf("flash size %d must be a positive multiple of sector size %d", flashSize, sectorSize)
		return
	}

	filePtr, err = os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		err = fmt.Errorf("error while open/create new flash image file: %s", err)
		return
	}

	header = Header{
		Magic:      conf.ImageMagic,
		FlashSize:  flashSize,
		SectorSize: sectorSize,
		FileSize:   conf.ImageHeaderLength + flashSize,
	}

	err = SetHeader(filePtr, header)
	if err == nil {
		erased := utils.FilledByteSlice(int(sectorSize), conf.ErasedByte)
		for address := int64(0); address < flashSize && err == nil; address += sectorSize {
			err = WriteFlash(filePtr, header, address, erased)
		}
	}
	if err != nil {
		_ = filePtr.Close()
		filePtr = nil
		err = fmt.Errorf("error while initializing new flash image file: %s", err)
	}

	return
}

// CloseFile - Syncs and closes the image file
func CloseFile(f *os.File) {
	if f != nil {
		_ = f.Sync()
		_ = f.Close()
	}
}

// RemoveFile - Removes the image file, make sure to close it first before calling this function
func RemoveFile(fileName string) (err error) {
	// Only try to remove if exists, and is not by accident a directory
	if stat, ok := os.Stat(fileName); ok == nil {
		if !stat.IsDir() {
			err = os.Remove(fileName)
			if err != nil {
				err = fmt.Errorf("error while removing flash image file: %s", err)
				return
			}
		}
	}

	return
}
