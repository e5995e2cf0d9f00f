package common

// WipeByteArray zeroes the buffer in place. Callers use it to drop password
// bytes as soon as they have been consumed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
