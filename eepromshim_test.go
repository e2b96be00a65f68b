//go:build unit

package eepromshim

import (
	"bytes"
	"errors"
	"github.com/gostonefire/eepromshim/flashsim"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const testBase uint32 = 0x100000

// newTestShim - Returns an emulated shim of size bytes over a fresh MemFlash, logging into the returned buffer
func newTestShim(t *testing.T, size int) (*Shim, *flashsim.MemFlash, *bytes.Buffer) {
	window := (size + 4095) / 4096 * 4096
	flash, err := flashsim.NewMemFlash(testBase, window, 4096)
	require.NoError(t, err, "create flash")

	var out bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &out, Level: hclog.Info})
	shim, err := NewEmulated(flash, WithSize(size), WithLogger(logger))
	require.NoError(t, err, "create shim")

	return shim, flash, &out
}

func TestNewEmulated(t *testing.T) {
	t.Run("defaults to 4096 bytes at 1MB", func(t *testing.T) {
		// Prepare
		flash, err := flashsim.NewMemFlash(testBase, 4096, 4096)
		require.NoError(t, err, "create flash")

		// Execute
		shim, err := NewEmulated(flash)

		// Check
		require.NoError(t, err, "create shim")
		assert.Equal(t, BackendEmulated, shim.Backend())
		assert.Equal(t, 4096, shim.Length())
		shim.Write(0, 0x12)
		assert.Equal(t, []byte{0x12}, flash.Bytes(testBase, 1), "offset 0 maps to base")
	})

	t.Run("custom geometry", func(t *testing.T) {
		// Prepare
		flash, err := flashsim.NewMemFlash(0x2000, 2048, 1024)
		require.NoError(t, err, "create flash")

		// Execute
		shim, err := NewEmulated(flash, WithBaseAddress(0x2000), WithSize(2048), WithSectorSize(1024))

		// Check
		require.NoError(t, err, "create shim")
		assert.Equal(t, 2048, shim.Length())
		assert.True(t, shim.EraseFlash(FlagSilent))
		assert.Equal(t, []uint32{0x2000, 0x2400}, flash.EraseLog)
	})

	t.Run("nil device is rejected", func(t *testing.T) {
		_, err := NewEmulated(nil)
		assert.Error(t, err)
	})
}

func TestNewNative(t *testing.T) {
	t.Run("size comes from the driver", func(t *testing.T) {
		// Prepare
		ee := flashsim.NewMemEEPROM(1024)

		// Execute
		shim, err := NewNative(ee, WithSize(99))

		// Check
		require.NoError(t, err, "create shim")
		assert.Equal(t, BackendNative, shim.Backend())
		assert.Equal(t, 1024, shim.Length())
		assert.True(t, shim.Begin(FlagNone))
		assert.True(t, shim.CheckFlash(FlagInit))
		assert.True(t, shim.EraseFlash(FlagNone))
	})

	t.Run("nil driver is rejected", func(t *testing.T) {
		_, err := NewNative(nil)
		assert.Error(t, err)
	})
}

func TestShim_Begin(t *testing.T) {
	t.Run("device failure is logged and reported", func(t *testing.T) {
		// Prepare
		shim, flash, out := newTestShim(t, 4096)
		flash.FailBegin(errors.New("no chip"))

		// Execute
		ok := shim.Begin(FlagNone)

		// Check
		assert.False(t, ok)
		assert.Contains(t, out.String(), "failed to initialize flash device")
	})

	t.Run("silent flag suppresses logging", func(t *testing.T) {
		// Prepare
		shim, flash, out := newTestShim(t, 4096)
		flash.FailBegin(errors.New("no chip"))

		// Execute
		ok := shim.Begin(FlagSilent)

		// Check
		assert.False(t, ok)
		assert.Empty(t, out.String())
	})
}

func TestShim_DumpSample(t *testing.T) {
	t.Run("map is logged line by line", func(t *testing.T) {
		// Prepare
		shim, _, out := newTestShim(t, 4096)
		shim.Write(0, 0)

		// Execute
		shim.DumpSample(256)

		// Check
		assert.Contains(t, out.String(), "EEPROM Map (4096b/16b):")
		assert.Contains(t, out.String(), "#"+strings.Repeat(".", 63))
		assert.Equal(t, 5, strings.Count(out.String(), "\n"), "header and four rows")
	})
}

func TestShim_Metrics(t *testing.T) {
	t.Run("device traffic is exposed on the registerer", func(t *testing.T) {
		// Prepare
		reg := prometheus.NewRegistry()
		flash, err := flashsim.NewMemFlash(testBase, 4096, 4096)
		require.NoError(t, err, "create flash")
		shim, err := NewEmulated(flash, WithRegisterer(reg))
		require.NoError(t, err, "create shim")

		// Execute
		shim.Update(1, 0x00)
		shim.Update(1, 0x00)

		// Check
		expected := `
# HELP eeprom_skipped_updates_total Number of updates that found the stored value unchanged and wrote nothing.
# TYPE eeprom_skipped_updates_total counter
eeprom_skipped_updates_total{backend="emulated"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "eeprom_skipped_updates_total"))
	})
}
