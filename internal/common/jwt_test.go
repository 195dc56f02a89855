package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret-for-tests")

	token, err := issuer.GenerateToken(42, "viajera")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "viajera", claims.Username)
	assert.Equal(t, "nexoecos", claims.Issuer)
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-one")
	other := NewTokenIssuer("secret-two")

	token, err := issuer.GenerateToken(1, "eco")
	require.NoError(t, err)

	_, err = other.ValidToken(token)
	assert.Error(t, err)
}

func TestTokenRejectedWhenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	_, err := issuer.ValidToken("definitely.not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secreto123")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword("secreto123", hash))
	assert.Error(t, CheckPassword("otra", hash))

	assert.True(t, HasUsablePassword(hash))
	assert.False(t, HasUsablePassword(UnusablePassword))
	assert.False(t, HasUsablePassword(""))
}

func TestReactionKindValidation(t *testing.T) {
	assert.True(t, ReactionLike.IsValid())
	assert.True(t, ReactionFire.IsValid())
	assert.True(t, ReactionGG.IsValid())
	assert.False(t, ReactionKind("love").IsValid())
}

func TestDefaultPage(t *testing.T) {
	p := DefaultPage(0, 0)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = DefaultPage(3, 25)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
}
