package cryptox

import (
	"crypto/subtle"
	"fmt"

	"github.com/splitvault/splitvault/internal/common"
)

// KeySize is the size of every symmetric key in the system (AES-256).
const KeySize = 32

// Key is an opaque handle to a 256-bit symmetric key. The raw bytes are
// deliberately unexported: a Key is only usable through Encrypt/Decrypt
// and WrapKey/UnwrapKey. User keys, group keys and invitation keys are
// all Keys of the same shape but distinct key material.
type Key struct {
	raw []byte
}

// NewKey copies raw into a Key handle. raw must be exactly KeySize bytes.
func NewKey(raw []byte) (Key, error) {
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("invalid key length %d: %w", len(raw), common.ErrKeyDerivation)
	}
	k := Key{raw: make([]byte, KeySize)}
	copy(k.raw, raw)
	return k, nil
}

// GenerateKey returns a fresh random key.
func GenerateKey() Key {
	return Key{raw: common.GenerateRandByteArray(KeySize)}
}

// IsZero reports whether k is the zero handle (no key material).
func (k Key) IsZero() bool {
	return k.raw == nil
}

// Equal compares two keys in constant time.
func (k Key) Equal(other Key) bool {
	return subtle.ConstantTimeCompare(k.raw, other.raw) == 1
}
