package flashsim

import (
	"github.com/gostonefire/eepromshim/interfaces"
	"github.com/gostonefire/eepromshim/internal/conf"
)

// MemEEPROM - In-memory native EEPROM, every byte freely writable
type MemEEPROM struct {
	memory []byte

	// Writes - Number of bytes physically written, by Write or by an Update that changed the value
	Writes int
}

var _ interfaces.NativeEEPROM = (*MemEEPROM)(nil)

// NewMemEEPROM - Returns a pointer to a new MemEEPROM of size bytes, all 0xFF
func NewMemEEPROM(size int) *MemEEPROM {
	m := &MemEEPROM{memory: make([]byte, size)}
	for i := range m.memory {
		m.memory[i] = conf.ErasedByte
	}

	return m
}

// Read - Returns the byte at idx
func (M *MemEEPROM) Read(idx int) byte {
	return M.memory[idx]
}

// Write - Writes value at idx
func (M *MemEEPROM) Write(idx int, value byte) {
	M.memory[idx] = value
	M.Writes++
}

// Update - Writes value at idx if it differs
func (M *MemEEPROM) Update(idx int, value byte) {
	if M.memory[idx] != value {
		M.Write(idx, value)
	}
}

// Length - Returns the size in bytes
func (M *MemEEPROM) Length() int {
	return len(M.memory)
}
