package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/cryptox"
)

func TestInvitation_JoinRoundTrip(t *testing.T) {
	groupKey := cryptox.GenerateKey()

	inv, err := CreateInvitation(groupKey)
	require.NoError(t, err)
	require.Len(t, inv.LinkSecret, 32)
	require.NotEmpty(t, inv.VerificationToken)

	joinerKey := cryptox.GenerateKey()
	rewrapped, joinedKey, err := JoinWithInvitation(inv.LinkSecret, inv.WrappedGroupKey, joinerKey)
	require.NoError(t, err)

	// The joiner holds the exact original group key...
	assert.True(t, groupKey.Equal(joinedKey))

	// ...and the re-wrapped key unwraps to byte-identical key material.
	unwrapped, err := cryptox.UnwrapKey(rewrapped, joinerKey)
	require.NoError(t, err)
	assert.True(t, groupKey.Equal(unwrapped))
}

func TestInvitation_WrongSecret(t *testing.T) {
	inv, err := CreateInvitation(cryptox.GenerateKey())
	require.NoError(t, err)

	wrong := common.GenerateRandByteArray(32)
	_, _, err = JoinWithInvitation(wrong, inv.WrappedGroupKey, cryptox.GenerateKey())
	assert.ErrorIs(t, err, common.ErrAuthentication)
}

func TestVerificationToken_DeterministicCommitment(t *testing.T) {
	secret := common.GenerateRandByteArray(32)

	tok1 := VerificationToken(secret)
	tok2 := VerificationToken(secret)
	assert.Equal(t, tok1, tok2)
	assert.Len(t, tok1, 64) // hex SHA-256

	other := VerificationToken(common.GenerateRandByteArray(32))
	assert.NotEqual(t, tok1, other)
}

func TestInvitation_SecretNeverInServerFields(t *testing.T) {
	inv, err := CreateInvitation(cryptox.GenerateKey())
	require.NoError(t, err)

	// The server-visible fields must not embed the secret.
	assert.NotContains(t, inv.VerificationToken, inv.LinkCode())
	assert.NotContains(t, inv.WrappedGroupKey, inv.LinkCode())
}

func TestLinkCode_RoundTrip(t *testing.T) {
	inv, err := CreateInvitation(cryptox.GenerateKey())
	require.NoError(t, err)

	secret, err := ParseLinkCode(inv.LinkCode())
	require.NoError(t, err)
	assert.Equal(t, inv.LinkSecret, secret)

	_, err = ParseLinkCode("@@@")
	assert.Error(t, err)
	_, err = ParseLinkCode("c2hvcnQ")
	assert.ErrorIs(t, err, common.ErrDomainValidation)
}
