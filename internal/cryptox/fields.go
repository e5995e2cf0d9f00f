package cryptox

import (
	"fmt"
	"strconv"

	"github.com/splitvault/splitvault/internal/common"
)

// Typed wrappers over the envelope. Integers are encrypted as their UTF-8
// decimal text form; lists are encrypted element-wise, so element count
// and order are visible in the ciphertext (an accepted leak).

func EncryptString(value string, key Key) (string, error) {
	return Encrypt([]byte(value), key)
}

func DecryptString(encoded string, key Key) (string, error) {
	plaintext, err := Decrypt(encoded, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func EncryptInt(value int64, key Key) (string, error) {
	return Encrypt([]byte(strconv.FormatInt(value, 10)), key)
}

// DecryptInt decrypts an integer field. A tag mismatch is
// common.ErrAuthentication; a verified plaintext that is not a decimal
// integer is common.ErrDomainValidation (the ciphertext was authentic,
// the value is out of domain).
func DecryptInt(encoded string, key Key) (int64, error) {
	plaintext, err := Decrypt(encoded, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(string(plaintext), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a decimal integer: %w", common.ErrDomainValidation)
	}
	return v, nil
}

func EncryptIntList(values []int64, key Key) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		enc, err := EncryptInt(v, key)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func DecryptIntList(encoded []string, key Key) ([]int64, error) {
	out := make([]int64, len(encoded))
	for i, enc := range encoded {
		v, err := DecryptInt(enc, key)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
