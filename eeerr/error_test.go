//go:build unit

package eeerr

import (
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestOutOfRange(t *testing.T) {
	t.Run("single byte message", func(t *testing.T) {
		// Execute
		err := OutOfRange{Index: 4096, Length: 1, Size: 4096}

		// Check
		assert.Equal(t, "address 0x1000 out of range, size is 4096", err.Error())
	})

	t.Run("span message", func(t *testing.T) {
		// Execute
		err := OutOfRange{Index: 4090, Length: 8, Size: 4096}

		// Check
		assert.Equal(t, "address 0x0FFA length 8 out of range, size is 4096", err.Error())
	})

	t.Run("found through wrapping", func(t *testing.T) {
		// Prepare
		err := fmt.Errorf("error while writing: %w", OutOfRange{Index: 1, Size: 1})

		// Execute
		var oor OutOfRange
		ok := errors.As(err, &oor)

		// Check
		assert.True(t, ok, "error is OutOfRange")
		assert.Equal(t, 1, oor.Index)
	})
}

func TestSectorEraseFailed(t *testing.T) {
	t.Run("unwraps device error", func(t *testing.T) {
		// Prepare
		devErr := errors.New("timeout")

		// Execute
		err := SectorEraseFailed{Address: 0x101000, Err: devErr}

		// Check
		assert.ErrorIs(t, err, devErr)
		assert.Equal(t, "failed to erase flash sector at 0x101000: timeout", err.Error())
	})
}

func TestDefaultMessages(t *testing.T) {
	t.Run("errors without message use defaults", func(t *testing.T) {
		assert.Equal(t, "failed to initialize flash device", DeviceNotReady{}.Error())
		assert.Equal(t, "custom", NewDeviceNotReady("custom").Error())
		assert.Equal(t, "not an EEPROM file", NotAnEEPROMFile{}.Error())
	})
}
