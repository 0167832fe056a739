package token

import (
	"crypto/rand"
	"encoding/base64"
)

// keyBytes - энтропия ключа доступа
const keyBytes = 32 // 256 бит

// GenerateKey создает непрозрачный ключ доступа аккаунта
func GenerateKey() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
