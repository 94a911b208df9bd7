// Package crypto wraps password hashing so the rest of the server
// only sees an opaque hash/verify pair.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost фиксированный cost factor для bcrypt.
// 10 раундов — баланс между стойкостью и временем ответа на login.
const BcryptCost = 10

// HashPassword хеширует пароль с использованием bcrypt (соль внутри)
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному хешу
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("invalid password")
	}
	return nil
}
