package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern проверяет базовый формат email: local@domain.tld
// Не пытается покрыть весь RFC 5322, только отсекает очевидный мусор
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 254
)

// NormalizeEmail приводит email к каноничному виду (trim + lowercase).
// Вся работа с email внутри сервера идет через нормализованное значение.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет, что email присутствует и похож на email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateUsername проверяет опциональный username.
// Пустая строка допустима (поле не задано).
func ValidateUsername(username string) error {
	if username == "" {
		return nil
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_), 3-32 characters")
	}

	return nil
}
