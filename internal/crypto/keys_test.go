package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTokenKey(t *testing.T) {
	key, err := DeriveTokenKey("test")
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
	// SHA256("test")
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", hex.EncodeToString(key))

	again, err := DeriveTokenKey("test")
	require.NoError(t, err)
	assert.Equal(t, key, again, "вывод ключа должен быть детерминирован")

	other, err := DeriveTokenKey("test2")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = DeriveTokenKey("")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestNewTokenCipher_SharedToken(t *testing.T) {
	// Два узла с одним токеном понимают друг друга без обмена ключами
	a, err := NewTokenCipher(SuiteAESGCM, "shared-secret")
	require.NoError(t, err)
	b, err := NewTokenCipher(SuiteAESGCM, "shared-secret")
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("hello"))
	require.NoError(t, err)
	opened, err := b.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), opened)

	wrong, err := NewTokenCipher(SuiteAESGCM, "other-secret")
	require.NoError(t, err)
	_, err = wrong.Open(sealed)
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = NewTokenCipher(SuiteAESGCM, "")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	second, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 43, "32 bytes in raw URL Base64")
	assert.Regexp(t, "^[A-Za-z0-9_-]+$", first)
}
