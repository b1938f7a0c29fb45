package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("0123456789abcdef-passphrase")
	require.NoError(t, err)

	encrypted, err := c.Encrypt("EAAB-meta-token")
	require.NoError(t, err)
	assert.NotEqual(t, "EAAB-meta-token", encrypted)

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "EAAB-meta-token", decrypted)
}

func TestTokenCipher_SaltVariesCiphertext(t *testing.T) {
	c, err := NewTokenCipher("0123456789abcdef-passphrase")
	require.NoError(t, err)

	first, err := c.Encrypt("same")
	require.NoError(t, err)
	second, err := c.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenCipher_Decrypt_Invalid(t *testing.T) {
	c, err := NewTokenCipher("0123456789abcdef-passphrase")
	require.NoError(t, err)

	_, err = c.Decrypt("EAAB-plaintext-token")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
	assert.False(t, c.IsEncrypted("EAAB-plaintext-token"))

	other, err := NewTokenCipher("another-passphrase-value")
	require.NoError(t, err)
	encrypted, err := other.Encrypt("token")
	require.NoError(t, err)

	_, err = c.Decrypt(encrypted)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestNewTokenCipher_EmptyKey(t *testing.T) {
	_, err := NewTokenCipher("")
	assert.Error(t, err)
}
