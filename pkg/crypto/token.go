package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	nonceSize  = 12
	keySize    = 32
	iterations = 100000
)

var ErrInvalidCiphertext = errors.New("invalid token ciphertext")

// TokenCipher cifra os tokens da Meta em repouso.
// Formato: base64(salt ‖ nonce ‖ ciphertext), chave derivada com PBKDF2-SHA256.
type TokenCipher struct {
	passphrase []byte
}

func NewTokenCipher(passphrase string) (*TokenCipher, error) {
	if passphrase == "" {
		return nil, errors.New("token encryption key is required")
	}
	return &TokenCipher{passphrase: []byte(passphrase)}, nil
}

func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("erro ao gerar salt: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("erro ao gerar nonce: %w", err)
	}

	gcm, err := c.gcm(salt)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, saltSize+nonceSize+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *TokenCipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) <= saltSize+nonceSize {
		return "", ErrInvalidCiphertext
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]

	gcm, err := c.gcm(salt)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, raw[saltSize+nonceSize:], nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	return string(plaintext), nil
}

// IsEncrypted diz se o valor armazenado está no formato cifrado
func (c *TokenCipher) IsEncrypted(value string) bool {
	_, err := c.Decrypt(value)
	return err == nil
}

func (c *TokenCipher) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.passphrase, salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cifra: %w", err)
	}

	return cipher.NewGCMWithNonceSize(block, nonceSize)
}
