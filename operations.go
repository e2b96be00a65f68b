package eepromshim

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Read - Returns the byte at idx. Out of range indexes and device read failures return 0xFF.
func (S *Shim) Read(idx int) byte {
	value, _ := S.TryRead(idx)
	return value
}

// Write - Writes value at idx unconditionally and makes it durable before returning. Out of range indexes are
// silently ignored.
func (S *Shim) Write(idx int, value byte) {
	_ = S.TryWrite(idx, value)
}

// Update - Writes value at idx only if the stored value differs. This is the preferred way to mutate storage since
// unchanged values cost no device write. Out of range indexes are silently ignored.
func (S *Shim) Update(idx int, value byte) {
	_ = S.TryUpdate(idx, value)
}

// TryRead - Like Read but also returns an error, of type OutOfRange for indexes outside the address space
func (S *Shim) TryRead(idx int) (value byte, err error) {
	return S.backend.ReadByte(idx)
}

// TryWrite - Like Write but returns an error, of type OutOfRange for indexes outside the address space
func (S *Shim) TryWrite(idx int, value byte) (err error) {
	return S.backend.WriteByte(idx, value)
}

// TryUpdate - Like Update but returns an error, of type OutOfRange for indexes outside the address space
func (S *Shim) TryUpdate(idx int, value byte) (err error) {
	return S.backend.UpdateByte(idx, value)
}

// CheckFlash - Probes the storage by writing 0xAA to the last byte and reading it back. On success the original byte
// is written back. On failure the original byte is not restored, and with FlagInit the emulated region is erased.
// Native EEPROM always passes.
func (S *Shim) CheckFlash(flags Flags) bool {
	ok, err := S.backend.CheckFlash(flags.Has(FlagInit))
	if flags.Has(FlagSilent) {
		return ok
	}

	switch {
	case err != nil:
		S.logger.Error("flash health check failed", "error", err)
	case !ok && flags.Has(FlagInit):
		S.logger.Warn("flash health check failed, flash area erased")
	case !ok:
		S.logger.Warn("flash health check failed")
	}

	return ok
}

// EraseFlash - Erases every sector of the emulated region. It stops at the first sector failing to erase and
// returns false, sectors already erased stay erased. Native EEPROM has nothing to erase and returns true.
func (S *Shim) EraseFlash(flags Flags) bool {
	silent := flags.Has(FlagSilent)
	if !silent {
		S.logger.Info("erasing flash area for EEPROM emulation")
	}

	if err := S.backend.EraseFlash(); err != nil {
		if !silent {
			S.logger.Error("failed to erase flash sector", "error", err)
		}
		return false
	}

	if !silent {
		S.logger.Info("flash area erased successfully")
	}

	return true
}

// Get - Fills t with the bytes stored at idx, using the little endian encoding/binary layout of T. T must have a
// fixed size.
//
// If the value does not fit in the address space, or T has no fixed size, t is returned unmodified and nothing
// signals the failure. Use TryGet to see the error.
func Get[T any](s *Shim, idx int, t *T) *T {
	_ = TryGet(s, idx, t)
	return t
}

// Put - Stores t at idx using the little endian encoding/binary layout of T, always writing, then makes it durable.
// If the value does not fit in the address space, or T has no fixed size, nothing is written and nothing signals the
// failure. Use TryPut to see the error.
func Put[T any](s *Shim, idx int, t *T) *T {
	_ = TryPut(s, idx, t)
	return t
}

// TryGet - Like Get but returns an error. On error t is left unmodified.
func TryGet[T any](s *Shim, idx int, t *T) (err error) {
	size := binary.Size(t)
	if size < 0 {
		err = fmt.Errorf("type %T has no fixed size", *t)
		return
	}

	buf := make([]byte, size)
	if err = s.backend.ReadBuffer(idx, buf); err != nil {
		return
	}

	var value T
	if err = binary.Read(bytes.NewReader(buf), binary.LittleEndian, &value); err != nil {
		return
	}
	*t = value

	return
}

// TryPut - Like Put but returns an error
func TryPut[T any](s *Shim, idx int, t *T) (err error) {
	var buf bytes.Buffer
	if err = binary.Write(&buf, binary.LittleEndian, t); err != nil {
		err = fmt.Errorf("type %T has no fixed size: %w", *t, err)
		return
	}

	return s.backend.WriteBuffer(idx, buf.Bytes())
}

