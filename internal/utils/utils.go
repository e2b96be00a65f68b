package utils

// IsProgrammable - Returns true if current can be turned into wanted by only clearing bits (1 -> 0),
// which is all a flash program operation is able to do without a preceding erase.
func IsProgrammable(current, wanted []byte) bool {
	if len(current) != len(wanted) {
		return false
	}

	for i := range wanted {
		if current[i]&wanted[i] != wanted[i] {
			return false
		}
	}

	return true
}

// FilledByteSlice - Returns a new byte slice of length n with every byte set to value
func FilledByteSlice(n int, value byte) (b []byte) {
	b = make([]byte, n)
	for i := range b {
		b[i] = value
	}

	return
}

// CeilDiv - Returns a divided by b rounded up, b must be higher than 0 (zero)
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
