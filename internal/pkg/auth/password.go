package auth

import (
	"errors"
	"sync"

	"github.com/yigit/coursehub/internal/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

// Şifre hash'leme maliyeti
const BcryptCost = 12

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword returns the bcrypt hash of password. Passwords longer than
// bcrypt accepts fail with a validation error.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validation.Field("password", "password must be at most 72 bytes")
		}
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches hashedPassword.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CheckPasswordAgainstDummy spends the same bcrypt work as CheckPassword
// when there is no stored hash to compare, so unknown accounts and wrong
// passwords cost the same. It always returns false.
func CheckPasswordAgainstDummy(password string) bool {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("coursehub-dummy-password"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
