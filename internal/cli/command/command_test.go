//go:build unit

package command

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"strings"
	"testing"
)

// testImage - Returns a path for a flash image in a fresh temporary directory
func testImage(t *testing.T) string {
	return filepath.Join(t.TempDir(), "flash.img")
}

// run - Runs eepromctl against image with a small flash geometry and returns what went to stdout and stderr
func run(image string, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut

	full := []string{"eepromctl", "--image", image, "--flash-size", "65536", "--base", "0x8000", "--size", "4096", "--log-level", "info"}
	err = app.Run(append(full, args...))

	return out.String(), errOut.String(), err
}

// mustRun - Like run but fails the test on error
func mustRun(t *testing.T, image string, args ...string) string {
	stdout, stderr, err := run(image, args...)
	require.NoError(t, err, "eepromctl %s: %s", strings.Join(args, " "), stderr)

	return stdout
}

func TestInit(t *testing.T) {
	t.Run("creates an image once", func(t *testing.T) {
		// Prepare
		image := testImage(t)

		// Execute
		stdout := mustRun(t, image, "init")
		_, _, errAgain := run(image, "init")
		_, _, errForce := run(image, "init", "--force")

		// Check
		assert.Contains(t, stdout, "65536 bytes, 4096 byte sectors")
		assert.ErrorContains(t, errAgain, "already exists")
		assert.NoError(t, errForce)
	})

	t.Run("commands need an image", func(t *testing.T) {
		_, _, err := run(testImage(t), "read", "0")
		assert.ErrorContains(t, err, "create it with the init command")
	})

	t.Run("region must fit the image", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		_, _, err := run(image, "--base", "0xF000", "--size", "8192", "read", "0")

		// Check
		assert.Error(t, err)
	})
}

func TestReadWrite(t *testing.T) {
	t.Run("bytes persist between runs", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		mustRun(t, image, "write", "0x10", "0x42")
		mustRun(t, image, "update", "0x11", "7")
		mustRun(t, image, "write", "0x10", "0xFE")
		stdout := mustRun(t, image, "read", "0x10", "3")

		// Check
		assert.Equal(t, "EEPROM [0x0010]: 0xFE\nEEPROM [0x0011]: 0x07\nEEPROM [0x0012]: 0xFF\n", stdout)
	})

	t.Run("bad arguments", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		_, _, errRange := run(image, "write", "4096", "0")
		_, _, errValue := run(image, "write", "0", "256")
		_, _, errArgs := run(image, "update", "0")
		_, _, errRead := run(image, "read")

		// Check
		assert.Error(t, errRange)
		assert.ErrorContains(t, errValue, "does not fit in a byte")
		assert.ErrorContains(t, errArgs, "needs an offset and a value")
		assert.ErrorContains(t, errRead, "needs an offset")
	})
}

func TestFillListDump(t *testing.T) {
	t.Run("filled range is listed and mapped", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		mustRun(t, image, "fill", "0x0A", "--start", "0", "--end", "3")
		listed := mustRun(t, image, "list", "--end", "0x20")
		dumped := mustRun(t, image, "dump", "--samples", "64")

		// Check
		assert.Equal(t, 4, strings.Count(listed, "b00001010 0x0A 10"))
		assert.True(t, strings.HasPrefix(listed, "0x0000: "))
		assert.Contains(t, dumped, "EEPROM Map (4096b/64b):")
		assert.Contains(t, dumped, "#"+strings.Repeat(".", 63))
	})
}

func TestSaveLoad(t *testing.T) {
	t.Run("export, erase and import", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		export := filepath.Join(t.TempDir(), "eeprom.txt")
		mustRun(t, image, "init")
		mustRun(t, image, "write", "0x20", "0x01")
		mustRun(t, image, "write", "0x21", "0x02")

		// Execute
		mustRun(t, image, "save", "--start", "0x20", "--end", "0x21", export)
		_, _, errExists := run(image, "save", export)
		mustRun(t, image, "erase")
		loaded := mustRun(t, image, "load", "--start", "0x100", export)
		stdout := mustRun(t, image, "read", "0x100", "2")
		erased := mustRun(t, image, "read", "0x20")

		// Check
		assert.Error(t, errExists, "no overwrite without --force")
		assert.Equal(t, "loaded 2 bytes\n", loaded)
		assert.Equal(t, "EEPROM [0x0100]: 0x01\nEEPROM [0x0101]: 0x02\n", stdout)
		assert.Equal(t, "EEPROM [0x0020]: 0xFF\n", erased)
	})
}

func TestCheckAndConfig(t *testing.T) {
	t.Run("boot, show and wipe", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		checked := mustRun(t, image, "check")
		before := mustRun(t, image, "config", "show")
		booted := mustRun(t, image, "config", "init")
		rebooted := mustRun(t, image, "config", "init")
		after := mustRun(t, image, "config", "show")
		mustRun(t, image, "config", "wipe")
		wiped := mustRun(t, image, "config", "show")
		other := mustRun(t, image, "--config-version", "2", "config", "show")

		// Check
		assert.Equal(t, "flash ok\n", checked)
		assert.Equal(t, "no valid config, stored version 0xFF, expected 1\n", before)
		assert.Equal(t, "config version 1, loaded false\n", booted)
		assert.Equal(t, "config version 1, loaded true\n", rebooted)
		assert.Equal(t, "valid config, version 1\n", after)
		assert.Equal(t, "no valid config, stored version 0xFF, expected 1\n", wiped)
		assert.Equal(t, "no valid config, stored version 0xFF, expected 2\n", other)
	})

	t.Run("status lines are logged", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		_, stderr, err := run(image, "config", "init")

		// Check
		require.NoError(t, err)
		assert.Contains(t, stderr, "no valid EEPROM config found, using defaults")
		assert.Contains(t, stderr, "config saved to EEPROM")
	})
}

func TestMetrics(t *testing.T) {
	t.Run("counters are printed when enabled", func(t *testing.T) {
		// Prepare
		image := testImage(t)
		mustRun(t, image, "init")

		// Execute
		_, stderr, err := run(image, "--metrics", "write", "0", "0x00")
		_, quiet, errQuiet := run(image, "write", "1", "0x00")

		// Check
		require.NoError(t, err)
		require.NoError(t, errQuiet)
		assert.Contains(t, stderr, "eeprom_device_programs_total 1\n")
		assert.Contains(t, stderr, "eeprom_device_syncs_total 1\n")
		assert.Contains(t, stderr, "eeprom_sector_erases_total 0\n")
		assert.NotContains(t, quiet, "eeprom_")
	})
}
