package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/stockroom/internal/server/handlers"
	"github.com/iudanet/stockroom/internal/server/token"
)

// AuthMiddleware создает middleware для проверки JWT access токена.
// Валидный токен кладет в контекст запроса типизированный principal
// (user id + email); дальше handlers достают его через UserIDFromContext.
func AuthMiddleware(logger *slog.Logger, tokenConfig token.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			tokenString := parts[1]

			claims, err := token.Validate(tokenConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			// Добавляем данные из токена в контекст
			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, handlers.EmailKey, claims.Email)

			logger.Debug("User authenticated", "user_id", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
