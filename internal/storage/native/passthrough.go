package native

import (
	"fmt"
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/gostonefire/eepromshim/internal/metrics"
	"github.com/gostonefire/eepromshim/internal/storage"
)

// Passthrough - Maps every storage primitive 1:1 onto a native EEPROM driver
type Passthrough struct {
	driver  interfaces.NativeEEPROM
	metrics *metrics.Collector
}

var _ storage.Backend = (*Passthrough)(nil)

// NewPassthrough - Returns a pointer to a new Passthrough around driver
func NewPassthrough(driver interfaces.NativeEEPROM, collector *metrics.Collector) (passthrough *Passthrough, err error) {
	if driver == nil {
		err = fmt.Errorf("eeprom driver can not be nil")
		return
	}

	passthrough = &Passthrough{driver: driver, metrics: collector}

	return
}

// Begin - Native EEPROM needs no initialization
func (P *Passthrough) Begin() (err error) {
	return
}

// Length - Returns the size reported by the driver
func (P *Passthrough) Length() int {
	return P.driver.Length()
}

// ReadByte - Reads the byte at idx
func (P *Passthrough) ReadByte(idx int) (value byte, err error) {
	if err = storage.CheckRange(idx, 1, P.Length()); err != nil {
		value = conf.ErasedByte
		return
	}

	value = P.driver.Read(idx)

	return
}

// WriteByte - Writes value at idx
func (P *Passthrough) WriteByte(idx int, value byte) (err error) {
	if err = storage.CheckRange(idx, 1, P.Length()); err != nil {
		return
	}

	P.driver.Write(idx, value)
	P.metrics.Program()

	return
}

// UpdateByte - Lets the driver write value at idx if it differs
func (P *Passthrough) UpdateByte(idx int, value byte) (err error) {
	if err = storage.CheckRange(idx, 1, P.Length()); err != nil {
		return
	}

	P.driver.Update(idx, value)

	return
}

// ReadBuffer - Fills buf byte by byte starting at idx
func (P *Passthrough) ReadBuffer(idx int, buf []byte) (err error) {
	if err = storage.CheckRange(idx, len(buf), P.Length()); err != nil {
		return
	}

	for i := range buf {
		buf[i] = P.driver.Read(idx + i)
	}

	return
}

// WriteBuffer - Stores buf byte by byte starting at idx using update, as native EEPROM put does
func (P *Passthrough) WriteBuffer(idx int, buf []byte) (err error) {
	if err = storage.CheckRange(idx, len(buf), P.Length()); err != nil {
		return
	}

	for i, v := range buf {
		P.driver.Update(idx+i, v)
	}

	return
}

// CheckFlash - Real EEPROM always works
func (P *Passthrough) CheckFlash(_ bool) (ok bool, err error) {
	return true, nil
}

// EraseFlash - Nothing to erase on native EEPROM
func (P *Passthrough) EraseFlash() (err error) {
	return
}
