package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/splitvault/splitvault/internal/common"
)

// applicationSalt is mixed with the username to form the argon2 salt.
// Deriving the salt from the username instead of accepting one from the
// server means a compromised server cannot downgrade the derivation.
const applicationSalt = "splitvault.credentials.v1"

// HKDF info labels. Distinct labels keep the two outputs computationally
// independent: the server learns nothing about the password key from the
// authentication token it stores.
const (
	infoPasswordKey = "password key"
	infoAuthToken   = "authentication token"
)

// Argon2Params are the tunable costs of the password hashing step.
// Threads stays at 1 (the derivation runs on a single worker); Time and
// MemoryKiB trade client latency against brute-force cost.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultArgon2Params is the production cost setting (~hundreds of
// milliseconds on commodity hardware).
var DefaultArgon2Params = Argon2Params{Time: 5, MemoryKiB: 64 * 1024, Threads: 1}

// DerivedSecrets is the output of DeriveSecrets. PasswordKey never leaves
// the client; AuthToken is sent to the server in its place.
type DerivedSecrets struct {
	PasswordKey Key
	AuthToken   []byte
}

// DeriveSecrets turns a credential pair into the session's root secrets.
// It is deterministic for a fixed (username, password) pair:
//
//	salt = SHA-256(applicationSalt ‖ username)
//	ikm  = argon2id(password, salt, params)
//	prk  = HKDF-Extract(SHA-256, ikm)
//	PasswordKey = HKDF-Expand(prk, "password key")
//	AuthToken   = HKDF-Expand(prk, "authentication token")
//
// Any failure yields common.ErrKeyDerivation; there is no fallback key.
func DeriveSecrets(username string, password []byte, params Argon2Params) (*DerivedSecrets, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	salt := sha256.Sum256(append([]byte(applicationSalt), []byte(username)...))
	ikm := argon2.IDKey(password, salt[:], params.Time, params.MemoryKiB, params.Threads, KeySize)

	prk := hkdf.Extract(sha256.New, ikm, nil)

	pkBytes, err := expand(prk, infoPasswordKey)
	if err != nil {
		return nil, err
	}
	token, err := expand(prk, infoAuthToken)
	if err != nil {
		return nil, err
	}

	passwordKey, err := NewKey(pkBytes)
	if err != nil {
		return nil, err
	}

	return &DerivedSecrets{PasswordKey: passwordKey, AuthToken: token}, nil
}

// DeriveKeyFromSecret derives a symmetric key from high-entropy secret
// bytes under a context label. Used for invitation keys, where the shared
// secret already has full entropy and needs no password hashing.
func DeriveKeyFromSecret(secret []byte, label string) (Key, error) {
	if len(secret) == 0 {
		return Key{}, fmt.Errorf("empty secret: %w", common.ErrKeyDerivation)
	}
	prk := hkdf.Extract(sha256.New, secret, nil)
	raw, err := expand(prk, label)
	if err != nil {
		return Key{}, err
	}
	return NewKey(raw)
}

func expand(prk []byte, info string) ([]byte, error) {
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("hkdf expand %q: %w", info, common.ErrKeyDerivation)
	}
	return out, nil
}

func (p Argon2Params) validate() error {
	// argon2 panics on out-of-range costs; reject them as derivation
	// failures instead.
	if p.Time == 0 || p.MemoryKiB < 8 || p.Threads == 0 {
		return fmt.Errorf("invalid argon2 params %+v: %w", p, common.ErrKeyDerivation)
	}
	return nil
}
