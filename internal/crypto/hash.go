package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintSize длина отпечатка ключа в hex символах
const FingerprintSize = 16

// Fingerprint возвращает короткий отпечаток ключа для статуса и логов.
// Отпечаток - префикс hex(SHA256(key)), сам ключ из него не восстановить.
// Для пустого ключа возвращается пустая строка.
func Fingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}

	hash := sha256.Sum256(key)
	return hex.EncodeToString(hash[:])[:FingerprintSize]
}

// EqualSecrets сравнивает два секрета за постоянное время
func EqualSecrets(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
