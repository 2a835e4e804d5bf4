package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// 256 бит энтропии; сам токен непрозрачный, срок жизни хранится рядом в БД.
const refreshTokenBytes = 32

// NewRefreshToken возвращает hex-строку из 64 символов.
func NewRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
