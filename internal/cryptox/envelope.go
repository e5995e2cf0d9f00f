package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/splitvault/splitvault/internal/common"
)

// nonceSize is the AES-GCM nonce length. The authentication tag adds
// another 16 bytes after the ciphertext.
const nonceSize = 12

// Encrypt seals plaintext under key with AES-256-GCM using a fresh random
// nonce and returns base64(nonce ‖ ciphertext ‖ tag). This is the wire
// representation of every encrypted value in the system.
func Encrypt(plaintext []byte, key Key) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(nonceSize)
	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails closed: any tampering, truncation or
// wrong key yields common.ErrAuthentication and no plaintext.
func Decrypt(encoded string, key Key) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("malformed ciphertext: %w", common.ErrAuthentication)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(raw) < nonceSize+aesgcm.Overhead() {
		return nil, fmt.Errorf("ciphertext too short: %w", common.ErrAuthentication)
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, common.ErrAuthentication
	}
	return plaintext, nil
}

// WrapKey encrypts k's raw bytes under kek, producing a WrappedKey in the
// same base64(nonce ‖ ciphertext ‖ tag) layout as any other envelope.
func WrapKey(k Key, kek Key) (string, error) {
	if k.IsZero() {
		return "", fmt.Errorf("cannot wrap zero key: %w", common.ErrKeyDerivation)
	}
	return Encrypt(k.raw, kek)
}

// UnwrapKey decrypts a WrappedKey under kek and returns the inner key
// handle. A tag mismatch surfaces as common.ErrAuthentication.
func UnwrapKey(wrapped string, kek Key) (Key, error) {
	raw, err := Decrypt(wrapped, kek)
	if err != nil {
		return Key{}, err
	}
	return NewKey(raw)
}

func newGCM(key Key) (cipher.AEAD, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("zero key: %w", common.ErrKeyDerivation)
	}
	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
