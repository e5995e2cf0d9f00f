// Package invite implements the invitation exchange: a group key is
// re-wrapped for a new member under a one-time shared secret, without the
// server ever seeing the secret or an unwrapped key.
package invite

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/cryptox"
)

const (
	// linkSecretSize gives the secret full key-strength entropy, so no
	// password hashing is needed before deriving a key from it.
	linkSecretSize = 32

	// verificationLabel is appended to the secret before hashing. The
	// resulting token is a non-secret commitment the server can check
	// without learning the secret.
	verificationLabel = "splitvault.invitation.v1"

	// keyLabel domain-separates the invitation wrapping key from any
	// other key derived from the same secret.
	keyLabel = "invitation key"
)

// Invitation is the client-side result of CreateInvitation. LinkSecret is
// shared with the invitee out of band; only VerificationToken and
// WrappedGroupKey go to the server.
type Invitation struct {
	LinkSecret        []byte
	VerificationToken string
	WrappedGroupKey   string
}

// CreateInvitation generates a fresh link secret, its verification token,
// and the group key wrapped under a key derived from the secret.
func CreateInvitation(groupKey cryptox.Key) (*Invitation, error) {
	secret := common.GenerateRandByteArray(linkSecretSize)

	key, err := cryptox.DeriveKeyFromSecret(secret, keyLabel)
	if err != nil {
		return nil, err
	}
	wrapped, err := cryptox.WrapKey(groupKey, key)
	if err != nil {
		return nil, err
	}

	return &Invitation{
		LinkSecret:        secret,
		VerificationToken: VerificationToken(secret),
		WrappedGroupKey:   wrapped,
	}, nil
}

// VerificationToken computes SHA-256(secret ‖ label) as lowercase hex.
func VerificationToken(linkSecret []byte) string {
	sum := sha256.Sum256(append(append([]byte{}, linkSecret...), verificationLabel...))
	return hex.EncodeToString(sum[:])
}

// JoinWithInvitation re-derives the invitation key from the shared secret,
// unwraps the group key, and re-wraps it under the new member's own user
// key. It returns both the re-wrapped key (sent back to the server) and
// the unwrapped group key (needed locally, e.g. to encrypt the joining
// member's username). A wrong secret surfaces as common.ErrAuthentication.
func JoinWithInvitation(linkSecret []byte, wrappedGroupKey string, userKey cryptox.Key) (string, cryptox.Key, error) {
	key, err := cryptox.DeriveKeyFromSecret(linkSecret, keyLabel)
	if err != nil {
		return "", cryptox.Key{}, err
	}

	groupKey, err := cryptox.UnwrapKey(wrappedGroupKey, key)
	if err != nil {
		return "", cryptox.Key{}, fmt.Errorf("unwrap invitation: %w", err)
	}

	rewrapped, err := cryptox.WrapKey(groupKey, userKey)
	if err != nil {
		return "", cryptox.Key{}, err
	}
	return rewrapped, groupKey, nil
}

// LinkCode renders the secret in the form embedded in an invitation link.
func (i *Invitation) LinkCode() string {
	return base64.RawURLEncoding.EncodeToString(i.LinkSecret)
}

// ParseLinkCode decodes a link code back into the raw secret.
func ParseLinkCode(code string) ([]byte, error) {
	secret, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("malformed invitation code: %w", err)
	}
	if len(secret) != linkSecretSize {
		return nil, fmt.Errorf("invitation code has wrong length: %w", common.ErrDomainValidation)
	}
	return secret, nil
}
