package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Поддерживаемые наборы шифров. Все узлы одного пула должны использовать один набор.
const (
	// SuiteAESGCM AES-256-GCM, nonce 12 bytes (по умолчанию)
	SuiteAESGCM = "aes-gcm"
	// SuiteXChaCha20 XChaCha20-Poly1305, nonce 24 bytes
	SuiteXChaCha20 = "xchacha20-poly1305"
)

// KeySize размер симметричного ключа в байтах
const KeySize = 32

var (
	ErrEmptyPlaintext = errors.New("plaintext cannot be empty")
	ErrInvalidKey     = errors.New("encryption key must be 32 bytes")
	ErrTooShort       = errors.New("encrypted data too short")
	ErrAuthFailed     = errors.New("authentication failed or corrupted data")
	ErrUnknownSuite   = errors.New("unknown cipher suite")
)

// Cipher шифрует и дешифрует полезную нагрузку синхронизации.
// Формат результата Seal: nonce + ciphertext + auth_tag.
//
//go:generate moq -out cipher_mock.go . Cipher
type Cipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
	Suite() string
}

type aeadCipher struct {
	aead  cipher.AEAD
	suite string
}

// NewCipher создает шифр выбранного набора с ключом key (32 bytes).
// Пустой suite означает SuiteAESGCM.
func NewCipher(suite string, key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidKey, len(key))
	}

	var (
		aead cipher.AEAD
		err  error
	)

	switch suite {
	case "", SuiteAESGCM:
		suite = SuiteAESGCM
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
	case SuiteXChaCha20:
		aead, err = chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create XChaCha20-Poly1305: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, suite)
	}

	return &aeadCipher{aead: aead, suite: suite}, nil
}

// Suite возвращает имя набора шифров
func (c *aeadCipher) Suite() string {
	return c.suite
}

// Seal шифрует данные со случайным nonce.
// Один и тот же plaintext каждый раз дает разный результат.
func (c *aeadCipher) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal дописывает ciphertext и auth_tag после nonce
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open дешифрует данные, зашифрованные Seal, и проверяет auth_tag
func (c *aeadCipher) Open(sealed []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize+c.aead.Overhead() {
		return nil, ErrTooShort
	}

	plaintext, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w: %v", ErrAuthFailed, err)
	}

	return plaintext, nil
}

// EncryptToBase64 шифрует данные и возвращает результат в Base64.
// В таком виде полезная нагрузка кладется в поле encrypted_data.
func EncryptToBase64(c Cipher, plaintext []byte) (string, error) {
	sealed, err := c.Seal(plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptFromBase64 дешифрует данные из Base64
func DecryptFromBase64(c Cipher, encoded string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return c.Open(sealed)
}
