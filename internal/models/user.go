package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`         // UUID пользователя
	Email        string    `json:"email"`      // уникальный email, хранится в lowercase
	Username     string    `json:"username"`   // опциональный username
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, никогда не отдается наружу
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
}

// RefreshToken представляет refresh token пользователя
type RefreshToken struct {
	Token     string    `json:"token"`      // подписанный JWT, хранится как есть
	UserID    string    `json:"user_id"`    // ID пользователя (слабая ссылка, без каскадного удаления)
	Type      string    `json:"type"`       // тип токена, на практике всегда "refresh"
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
}

// TokenTypeRefresh единственный тип токена, который персистится.
// Access токены не хранятся: их валидность проверяется по подписи и exp.
const TokenTypeRefresh = "refresh"
