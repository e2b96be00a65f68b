// Package textio imports and exports EEPROM contents in a line oriented text format:
//
//	# eeprom
//	0x0000: 01 FF 3C ...
//
// The first line is the header, every data line holds a hex address, a colon and space separated hex bytes.
// Exports put 16 bytes on each line. Imports accept blank lines and lines starting with '#' anywhere after the header.
package textio

import (
	"bufio"
	"fmt"
	"github.com/gostonefire/eepromshim/diag"
	"github.com/gostonefire/eepromshim/eeerr"
	"github.com/gostonefire/eepromshim/internal/conf"
	"io"
	"os"
	"strconv"
	"strings"
)

// Save - Writes bytes start to end (inclusive) of src as an EEPROM text export
func Save(w io.Writer, src diag.Reader, start, end int) (err error) {
	size := src.Length()
	if err = checkSaveRange(start, end, size); err != nil {
		return
	}

	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintln(bw, conf.TextHeader)

	counter := 0
	for i := start; i <= end; i++ {
		if counter%conf.TextBytesPerLine == 0 {
			_, _ = fmt.Fprintf(bw, "%s:", diag.FormatAddress(i, size))
		}
		counter++
		_, _ = fmt.Fprintf(bw, " %02X", src.Read(i))
		if counter%conf.TextBytesPerLine == 0 {
			_, _ = fmt.Fprintln(bw)
		}
	}
	if counter%conf.TextBytesPerLine != 0 {
		_, _ = fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// Load - Reads an EEPROM text export from r and stores every byte in dst using update.
//   - start relocates the data: when zero or higher, the first data line is stored at start and later lines keep
//     their distance to it. A negative start stores every line at its own address.
//
// It returns:
//   - total is the number of bytes stored
//   - err is of type eeerr.NotAnEEPROMFile if the header is missing, eeerr.OutOfRange if a byte falls outside dst
//     (bytes before it are already stored), or a standard error for malformed lines.
func Load(r io.Reader, dst diag.Updater, start int) (total int, err error) {
	size := dst.Length()
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != conf.TextHeader {
		if err = scanner.Err(); err == nil {
			err = eeerr.NotAnEEPROMFile{}
		}
		return
	}

	offset := 0
	relocated := start < 0
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.IndexByte(line, ':')
		if sep <= 0 {
			continue
		}

		var address int64
		address, err = strconv.ParseInt(strings.TrimSpace(line[:sep]), 0, 32)
		if err != nil {
			err = fmt.Errorf("line %d: invalid address: %w", lineNo, err)
			return
		}
		if !relocated {
			offset = start - int(address)
			relocated = true
		}

		var values []byte
		values, err = parseBytes(line[sep+1:])
		if err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
			return
		}

		for count, value := range values {
			idx := int(address) + offset + count
			if idx < 0 || idx >= size {
				err = eeerr.OutOfRange{Index: idx, Length: 1, Size: size}
				return
			}
			dst.Update(idx, value)
			total++
		}
	}
	err = scanner.Err()

	return
}

// SaveFile - Exports bytes start to end of src to the file at path. An existing file is only overwritten if force
// is true.
func SaveFile(path string, src diag.Reader, start, end int, force bool) (err error) {
	if err = checkSaveRange(start, end, src.Length()); err != nil {
		return
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		err = fmt.Errorf("error while creating eeprom file: %w", err)
		return
	}

	err = Save(f, src, start, end)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return
}

// LoadFile - Imports the EEPROM text export at path into dst, see Load
func LoadFile(path string, dst diag.Updater, start int) (total int, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("error while opening eeprom file: %w", err)
		return
	}
	defer func(f *os.File) { _ = f.Close() }(f)

	return Load(f, dst, start)
}

// checkSaveRange - Returns an error of type eeerr.OutOfRange unless 0 <= start <= end < size
func checkSaveRange(start, end, size int) (err error) {
	if start < 0 || start >= size || end >= size || start > end {
		err = eeerr.OutOfRange{Index: start, Length: end - start + 1, Size: size}
	}

	return
}

// parseBytes - Parses hex bytes written as two digit groups, with or without separating whitespace
func parseBytes(data string) (values []byte, err error) {
	for _, field := range strings.Fields(data) {
		for len(field) > 0 {
			n := 2
			if len(field) < n {
				n = len(field)
			}
			var v uint64
			v, err = strconv.ParseUint(field[:n], 16, 8)
			if err != nil {
				err = fmt.Errorf("invalid byte %q: %w", field[:n], err)
				return
			}
			values = append(values, byte(v))
			field = field[n:]
		}
	}

	return
}
