package storage

import (
	"context"

	"github.com/iudanet/stockroom/internal/models"
)

// TokenStorage defines interface for refresh token persistence
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token
	// If token with same token value exists, it will be replaced
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetValidRefreshToken retrieves refresh token by token value.
	// Expiry is re-checked at read time: returns ErrTokenNotFound for
	// tokens that are absent OR whose expires_at has passed, even if the
	// row has not been swept yet.
	GetValidRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteValidRefreshToken atomically consumes a non-expired refresh
	// token by exact value. Returns ErrTokenNotFound if no valid row was
	// deleted. Of several concurrent callers at most one succeeds.
	DeleteValidRefreshToken(ctx context.Context, token string) error

	// DeleteUserTokens deletes all refresh tokens for a user
	// Returns number of deleted tokens; deleting zero rows is not an error
	DeleteUserTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredTokens removes all expired tokens (best-effort sweep)
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context) (int, error)
}
