// Package diag renders human readable views of EEPROM contents and offers bulk fill. It only uses the byte
// primitives of the storage it is given.
package diag

import (
	"fmt"
	"github.com/gostonefire/eepromshim/eeerr"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/utils"
	"io"
)

// Reader - Byte level read access to an EEPROM
type Reader interface {
	Read(idx int) byte
	Length() int
}

// Updater - Byte level differential write access to an EEPROM
type Updater interface {
	Update(idx int, value byte)
	Length() int
}

// FormatAddress - Formats an address with two hex digits for EEPROMs up to 256 bytes, four otherwise
func FormatAddress(address, size int) string {
	if size > 255 {
		return fmt.Sprintf("0x%04X", address)
	}
	return fmt.Sprintf("0x%02X", address)
}

// List - Writes one line per byte in [start, end] that holds data (is not 0xFF), showing it as binary, hex and
// decimal.
func List(w io.Writer, src Reader, start, end int) (err error) {
	size := src.Length()
	if start < 0 || start >= size {
		err = eeerr.OutOfRange{Index: start, Length: 1, Size: size}
		return
	}
	if end >= size {
		end = size - 1
	}

	for i := start; i <= end; i++ {
		value := src.Read(i)
		if value == conf.ErasedByte {
			continue
		}
		_, err = fmt.Fprintf(w, "%s: b%08b 0x%02X %d\n", FormatAddress(i, size), value, value, value)
		if err != nil {
			return
		}
	}

	return
}

// Fill - Sets every byte in [start, end] to value using update, so bytes already holding value are not written
func Fill(dst Updater, value byte, start, end int) (err error) {
	size := dst.Length()
	if start < 0 || start >= size || end >= size || start > end {
		err = eeerr.OutOfRange{Index: start, Length: end - start + 1, Size: size}
		return
	}

	for i := start; i <= end; i++ {
		dst.Update(i, value)
	}

	return
}

// DumpSample - Writes a map of the whole EEPROM squeezed into at most maxSamples characters. Each character covers
// a run of bytes: '.' if all of them are 0xFF, '#' if any holds data. Rows are 64 characters wide.
func DumpSample(w io.Writer, src Reader, maxSamples int) (err error) {
	size := src.Length()
	if maxSamples <= 0 {
		err = fmt.Errorf("max samples must be a positive value higher than 0 (zero)")
		return
	}
	bytesPerSample := utils.CeilDiv(size, maxSamples)

	if _, err = fmt.Fprintf(w, "EEPROM Map (%db/%db):\n", size, bytesPerSample); err != nil {
		return
	}

	sampleIdx := 0
	for i := 0; i < size; i, sampleIdx = i+bytesPerSample, sampleIdx+1 {
		mark := "."
		for j := i; j < i+bytesPerSample && j < size; j++ {
			if src.Read(j) != conf.ErasedByte {
				mark = "#"
				break
			}
		}
		if (sampleIdx+1)%64 == 0 && sampleIdx+1 < maxSamples {
			mark += "\n"
		}
		if _, err = io.WriteString(w, mark); err != nil {
			return
		}
	}

	_, err = io.WriteString(w, "\n")

	return
}

// PrintAddress - Writes the value of a single byte
func PrintAddress(w io.Writer, src Reader, address int) (err error) {
	size := src.Length()
	if address < 0 || address >= size {
		err = eeerr.OutOfRange{Index: address, Length: 1, Size: size}
		return
	}

	_, err = fmt.Fprintf(w, "EEPROM [%s]: 0x%02X\n", FormatAddress(address, size), src.Read(address))

	return
}
