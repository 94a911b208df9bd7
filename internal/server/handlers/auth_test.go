package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/stockroom/internal/crypto"
	"github.com/iudanet/stockroom/internal/models"
	"github.com/iudanet/stockroom/internal/server/token"
	"github.com/iudanet/stockroom/pkg/api"
)

func testTokenConfig() token.Config {
	return token.Config{
		Secret:          []byte("test-secret-key-for-unit-tests"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newAuthFixture() (*AuthHandler, *mockUserStorage, *mockTokenStorage) {
	users := newMockUserStorage()
	tokens := newMockTokenStorage()
	h := NewAuthHandler(testLogger(), users, tokens, testTokenConfig())
	return h, users, tokens
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func register(t *testing.T, h *AuthHandler, email, password string) api.TokenResponse {
	t.Helper()

	w := doJSON(t, h.Register, http.MethodPost, "/api/v1/auth/register", api.RegisterRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	h, users, tokens := newAuthFixture()

	resp := register(t, h, "alice@example.com", "correcthorse")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)

	// Access token is verifiable and subject matches the created user
	user, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	claims, err := token.Validate(testTokenConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)

	// Password is stored hashed, not verbatim
	assert.NotEqual(t, "correcthorse", user.PasswordHash)
	assert.NoError(t, crypto.VerifyPassword("correcthorse", user.PasswordHash))

	// Refresh token is persisted with the refresh TTL
	record, err := tokens.GetValidRefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, record.UserID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), record.ExpiresAt, 5*time.Second)
}

func TestAuthHandler_Register_EmailNormalized(t *testing.T) {
	h, users, _ := newAuthFixture()

	register(t, h, "  Bob@Example.COM ", "correcthorse")

	_, err := users.GetUserByEmail(context.Background(), "bob@example.com")
	assert.NoError(t, err)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  api.RegisterRequest
	}{
		{"missing email", api.RegisterRequest{Password: "correcthorse"}},
		{"bad email", api.RegisterRequest{Email: "not-an-email", Password: "correcthorse"}},
		{"missing password", api.RegisterRequest{Email: "a@example.com"}},
		{"short password", api.RegisterRequest{Email: "a@example.com", Password: "short"}},
		{"bad username", api.RegisterRequest{Email: "a@example.com", Password: "correcthorse", Username: "x!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newAuthFixture()
			w := doJSON(t, h.Register, http.MethodPost, "/api/v1/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, _, _ := newAuthFixture()

	register(t, h, "alice@example.com", "correcthorse")

	w := doJSON(t, h.Register, http.MethodPost, "/api/v1/auth/register", api.RegisterRequest{
		Email:    "alice@example.com",
		Password: "another-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	h, users, _ := newAuthFixture()

	register(t, h, "alice@example.com", "correcthorse")

	w := doJSON(t, h.Login, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correcthorse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	user, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	claims, err := token.Validate(testTokenConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, _, _ := newAuthFixture()

	register(t, h, "alice@example.com", "correcthorse")

	tests := []struct {
		name string
		req  api.LoginRequest
	}{
		{"wrong password", api.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}},
		{"unknown email", api.LoginRequest{Email: "nobody@example.com", Password: "correcthorse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h.Login, http.MethodPost, "/api/v1/auth/login", tt.req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			// Identical message in both cases: must not reveal whether the
			// email exists
			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "invalid credentials", resp.Message)
		})
	}
}

func TestAuthHandler_Login_AllowsMultipleSessions(t *testing.T) {
	h, _, tokens := newAuthFixture()

	first := register(t, h, "alice@example.com", "correcthorse")

	w := doJSON(t, h.Login, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correcthorse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var second api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))

	// Two logins within the same second are still two distinct sessions
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The earlier session's refresh token is still valid
	_, err := tokens.GetValidRefreshToken(context.Background(), first.RefreshToken)
	assert.NoError(t, err)
	_, err = tokens.GetValidRefreshToken(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthHandler_Refresh_RotatesToken(t *testing.T) {
	h, _, tokens := newAuthFixture()

	initial := register(t, h, "alice@example.com", "correcthorse")

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: initial.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	// A new refresh token is issued, not the old value echoed back
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, initial.RefreshToken, resp.RefreshToken)

	// Old token is consumed, new one is live with the full refresh TTL
	_, err := tokens.GetValidRefreshToken(context.Background(), initial.RefreshToken)
	assert.Error(t, err)

	record, err := tokens.GetValidRefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), record.ExpiresAt, 5*time.Second)
}

func TestAuthHandler_Refresh_ReuseRejected(t *testing.T) {
	h, _, _ := newAuthFixture()

	initial := register(t, h, "alice@example.com", "correcthorse")

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: initial.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Replaying the consumed token must fail
	w = doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: initial.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh_ExpiredRecord(t *testing.T) {
	h, users, tokens := newAuthFixture()

	register(t, h, "alice@example.com", "correcthorse")
	user, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// Row still physically exists but has expired
	expired := &models.RefreshToken{
		Token:     "expired-token",
		UserID:    user.ID,
		Type:      models.TokenTypeRefresh,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, tokens.SaveRefreshToken(context.Background(), expired))

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: "expired-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh_OrphanedToken(t *testing.T) {
	h, users, _ := newAuthFixture()

	resp := register(t, h, "alice@example.com", "correcthorse")
	user, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// Owner is gone, token survived (weak reference)
	require.NoError(t, users.DeleteUser(context.Background(), user.ID))

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: resp.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "user not found", errResp.Message)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h, _, _ := newAuthFixture()

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Refresh_UnknownToken(t *testing.T) {
	h, _, _ := newAuthFixture()

	w := doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: "never-issued",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	h, users, tokens := newAuthFixture()

	resp := register(t, h, "alice@example.com", "correcthorse")
	user, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// Second session
	w := doJSON(t, h.Login, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correcthorse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, user.ID))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var msg api.MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, "Logged out successfully", msg.Message)

	// Global logout: ALL sessions' refresh tokens are revoked
	assert.Empty(t, tokens.tokens)

	// A refresh token deleted by logout can no longer be used
	w = doJSON(t, h.Refresh, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: resp.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_Idempotent(t *testing.T) {
	h, _, _ := newAuthFixture()

	// No tokens to delete: still succeeds
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "ghost-user"))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Logout_NoPrincipal(t *testing.T) {
	h, _, _ := newAuthFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_InvalidBody(t *testing.T) {
	h, _, _ := newAuthFixture()

	for _, handler := range []http.HandlerFunc{h.Register, h.Login, h.Refresh} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}
