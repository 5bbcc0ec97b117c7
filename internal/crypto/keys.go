package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// TokenSize размер случайной части сгенерированного токена в байтах
const TokenSize = 32

// ErrEmptyToken возвращается при попытке вывести ключ из пустого токена
var ErrEmptyToken = errors.New("token cannot be empty")

// DeriveTokenKey выводит симметричный ключ из общего токена: SHA-256(token).
// Вывод детерминирован: все узлы с одним токеном получают один ключ
// без какого-либо обмена. Токен раздается вне сети синхронизации.
func DeriveTokenKey(token string) ([]byte, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	sum := sha256.Sum256([]byte(token))
	return sum[:], nil
}

// NewTokenCipher выводит ключ из токена и создает шифр выбранного набора
func NewTokenCipher(suite, token string) (Cipher, error) {
	key, err := DeriveTokenKey(token)
	if err != nil {
		return nil, err
	}
	return NewCipher(suite, key)
}

// GenerateToken генерирует криптографически случайный токен в URL-safe Base64
func GenerateToken() (string, error) {
	raw := make([]byte, TokenSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
