package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/stockroom/internal/crypto"
	"github.com/iudanet/stockroom/internal/models"
	"github.com/iudanet/stockroom/internal/server/storage"
	"github.com/iudanet/stockroom/internal/validation"
	"github.com/iudanet/stockroom/pkg/api"
)

// UsersHandler обрабатывает CRUD запросы для пользователей.
// В отличие от /auth/register не выдает токены: это административный
// интерфейс управления учетными записями.
type UsersHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
}

// NewUsersHandler создает новый handler для пользователей
func NewUsersHandler(logger *slog.Logger, userStorage storage.UserStorage) *UsersHandler {
	return &UsersHandler{
		logger:      logger,
		userStorage: userStorage,
	}
}

// Create обрабатывает POST /api/v1/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create user request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			sendError(h.logger, w, "email already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user created", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, user, http.StatusCreated)
}

// List обрабатывает GET /api/v1/users
// Хеши паролей не сериализуются (json:"-" на модели)
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if users == nil {
		users = []*models.User{}
	}

	sendJSON(h.logger, w, users, http.StatusOK)
}

// Get обрабатывает GET /api/v1/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, user, http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/users/{id}
// Частичное обновление: отсутствующие поля не меняются, пароль при
// наличии в патче перехешируется
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update user request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == nil && req.Username == nil && req.Password == nil {
		sendError(h.logger, w, "at least one field must be provided", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if err := validation.ValidateEmail(email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Email = email
	}
	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := crypto.HashPassword(*req.Password)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			sendError(h.logger, w, "user not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrUserAlreadyExists):
			sendError(h.logger, w, "email already taken", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, user, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/users/{id}
// Выданные refresh токены НЕ удаляются каскадно: осиротевшие токены
// отклоняются на refresh и вычищаются фоновой очисткой
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.userStorage.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.String("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}
