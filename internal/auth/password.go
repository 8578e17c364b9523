package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes - предел bcrypt, длина считается в байтах
const MaxPasswordBytes = 72

var passwordCost = bcrypt.DefaultCost

// SetPasswordCost меняет стоимость bcrypt (тесты используют bcrypt.MinCost)
func SetPasswordCost(cost int) {
	passwordCost = cost
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша.
// Сравнение за постоянное время делает bcrypt.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes long")
)

// ValidatePassword проверяет длину пароля до хеширования
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
