// Package token issues and validates signed JWT credentials.
// Access и refresh токены подписываются одним HS256 секретом и несут
// одинаковые claims (subject = user id, email), различаются только TTL.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет JWT claims для нашего приложения
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config содержит конфигурацию для подписи токенов
type Config struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Issuer имя издателя в claims
const Issuer = "stockroom"

// IssueAccessToken создает новый JWT access token.
// Возвращает подписанный токен и его время жизни в секундах.
func IssueAccessToken(cfg Config, userID, email string) (string, int64, error) {
	tokenString, _, err := issue(cfg, userID, email, cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return tokenString, int64(cfg.AccessTokenTTL.Seconds()), nil
}

// IssueRefreshToken создает новый JWT refresh token.
// Возвращает подписанный токен и момент истечения для записи в хранилище.
func IssueRefreshToken(cfg Config, userID, email string) (string, time.Time, error) {
	return issue(cfg, userID, email, cfg.RefreshTokenTTL)
}

// issue подписывает токен с заданным TTL.
// jti делает каждый токен уникальным: iat/exp усекаются до секунд,
// и без него два токена, выпущенные в одну секунду, совпали бы байт в байт.
func issue(cfg Config, userID, email string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate валидирует и парсит подписанный токен
func Validate(cfg Config, tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
