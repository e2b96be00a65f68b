//go:build unit

package textio

import (
	"bytes"
	"github.com/gostonefire/eepromshim/eeerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
)

const testTextFile string = "unittest-eeprom.txt"

// memory - Plain byte slice implementing diag.Reader and diag.Updater
type memory struct {
	data    []byte
	updates int
}

func newMemory(size int) *memory {
	return &memory{data: bytes.Repeat([]byte{0xFF}, size)}
}

func (m *memory) Read(idx int) byte { return m.data[idx] }
func (m *memory) Length() int       { return len(m.data) }
func (m *memory) Update(idx int, value byte) {
	if m.data[idx] != value {
		m.data[idx] = value
		m.updates++
	}
}

func TestSave(t *testing.T) {
	t.Run("writes header and 16 bytes per line", func(t *testing.T) {
		// Prepare
		m := newMemory(4096)
		for i := 0; i < 20; i++ {
			m.data[0x10+i] = byte(i)
		}
		var out bytes.Buffer

		// Execute
		err := Save(&out, m, 0x10, 0x23)

		// Check
		assert.NoError(t, err)
		expected := "# eeprom\n" +
			"0x0010: 00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F\n" +
			"0x0020: 10 11 12 13\n"
		assert.Equal(t, expected, out.String())
	})

	t.Run("small eeprom uses two digit addresses", func(t *testing.T) {
		// Prepare
		m := newMemory(64)
		var out bytes.Buffer

		// Execute
		err := Save(&out, m, 0, 15)

		// Check
		assert.NoError(t, err)
		assert.Equal(t, "# eeprom\n0x00: FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF\n", out.String())
	})

	t.Run("bad range writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		assert.ErrorAs(t, Save(&out, newMemory(64), 10, 5), &eeerr.OutOfRange{})
		assert.ErrorAs(t, Save(&out, newMemory(64), 0, 64), &eeerr.OutOfRange{})
		assert.Empty(t, out.String())
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads records at their own addresses", func(t *testing.T) {
		// Prepare
		m := newMemory(4096)
		in := "# eeprom\n\n# comment\n0x0010: 01 02 03\n  0x0100:0A0B 0C\n"

		// Execute
		total, err := Load(strings.NewReader(in), m, -1)

		// Check
		assert.NoError(t, err)
		assert.Equal(t, 6, total)
		assert.Equal(t, []byte{1, 2, 3}, m.data[0x10:0x13])
		assert.Equal(t, []byte{0x0A, 0x0B, 0x0C}, m.data[0x100:0x103])
	})

	t.Run("relocates to start keeping relative offsets", func(t *testing.T) {
		// Prepare
		m := newMemory(4096)
		in := "# eeprom\n0x0010: 01 02\n0x0020: 03\n"

		// Execute
		total, err := Load(strings.NewReader(in), m, 0x10)

		// Check
		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []byte{1, 2}, m.data[0x10:0x12])
		assert.Equal(t, byte(3), m.data[0x20], "second line keeps its distance")
	})

	t.Run("relocates down to zero", func(t *testing.T) {
		// Prepare
		m := newMemory(64)
		in := "# eeprom\n0x20: AA\n0x21: BB\n"

		// Execute
		_, err := Load(strings.NewReader(in), m, 0)

		// Check
		assert.NoError(t, err)
		assert.Equal(t, []byte{0xAA, 0xBB}, m.data[0:2])
	})

	t.Run("uses update so unchanged bytes are not written", func(t *testing.T) {
		// Prepare
		m := newMemory(64)
		in := "# eeprom\n0x00: FF FF 00\n"

		// Execute
		_, err := Load(strings.NewReader(in), m, -1)

		// Check
		assert.NoError(t, err)
		assert.Equal(t, 1, m.updates)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := Load(strings.NewReader("0x00: 01\n"), newMemory(64), -1)
		assert.ErrorAs(t, err, &eeerr.NotAnEEPROMFile{})
		_, err = Load(strings.NewReader(""), newMemory(64), -1)
		assert.ErrorAs(t, err, &eeerr.NotAnEEPROMFile{})
	})

	t.Run("stops at the first byte out of range keeping earlier bytes", func(t *testing.T) {
		// Prepare
		m := newMemory(64)
		in := "# eeprom\n0x3E: 01 02 03\n"

		// Execute
		total, err := Load(strings.NewReader(in), m, -1)

		// Check
		var oor eeerr.OutOfRange
		assert.ErrorAs(t, err, &oor)
		assert.Equal(t, 64, oor.Index)
		assert.Equal(t, 2, total)
		assert.Equal(t, []byte{1, 2}, m.data[0x3E:])
	})

	t.Run("malformed bytes are reported", func(t *testing.T) {
		_, err := Load(strings.NewReader("# eeprom\n0x00: 0G\n"), newMemory(64), -1)
		assert.Error(t, err)
		_, err = Load(strings.NewReader("# eeprom\nzz: 00\n"), newMemory(64), -1)
		assert.Error(t, err)
	})
}

func TestSaveLoadFile(t *testing.T) {
	t.Run("export then import restores the contents", func(t *testing.T) {
		// Prepare
		src := newMemory(512)
		for i := range src.data {
			src.data[i] = byte(i * 31)
		}
		dst := newMemory(512)

		// Execute
		err := SaveFile(testTextFile, src, 0, 511, false)
		require.NoError(t, err, "save file")
		total, err := LoadFile(testTextFile, dst, -1)

		// Check
		assert.NoError(t, err, "load file")
		assert.Equal(t, 512, total)
		assert.Equal(t, src.data, dst.data)

		// Clean up
		err = os.Remove(testTextFile)
		assert.NoError(t, err, "remove file")
	})

	t.Run("existing file is only overwritten with force", func(t *testing.T) {
		// Prepare
		src := newMemory(64)
		require.NoError(t, os.WriteFile(testTextFile, []byte("keep"), 0644))

		// Execute
		errNoForce := SaveFile(testTextFile, src, 0, 63, false)
		kept, _ := os.ReadFile(testTextFile)
		errForce := SaveFile(testTextFile, src, 0, 63, true)
		overwritten, _ := os.ReadFile(testTextFile)

		// Check
		assert.Error(t, errNoForce, "refuses to overwrite")
		assert.Equal(t, "keep", string(kept))
		assert.NoError(t, errForce, "overwrites with force")
		assert.True(t, strings.HasPrefix(string(overwritten), "# eeprom\n"))

		// Clean up
		err := os.Remove(testTextFile)
		assert.NoError(t, err, "remove file")
	})

	t.Run("bad range creates no file", func(t *testing.T) {
		// Execute
		err := SaveFile(testTextFile, newMemory(64), 0, 64, true)

		// Check
		assert.ErrorAs(t, err, &eeerr.OutOfRange{})
		_, statErr := os.Stat(testTextFile)
		assert.True(t, os.IsNotExist(statErr))
	})
}
