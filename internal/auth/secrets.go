package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	refreshSecretBytes = 64
	codeMin            = 100000
	codeMax            = 999999
)

// HashSecret - SHA-256 в hex. Используется для refresh токенов и одноразовых кодов.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// NewRefreshSecret возвращает секрет для клиента и его хеш для базы
func NewRefreshSecret() (token string, hash string, err error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashSecret(token), nil
}

// NewNumericCode - шестизначный код, равномерно из [100000, 999999]
func NewNumericCode() (code string, hash string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", "", fmt.Errorf("generate code: %w", err)
	}
	code = fmt.Sprintf("%06d", n.Int64()+codeMin)
	return code, HashSecret(code), nil
}
