package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/stockroom/internal/models"
	"github.com/iudanet/stockroom/internal/server/storage"
	"github.com/iudanet/stockroom/pkg/api"
)

// ItemsHandler обрабатывает CRUD запросы для позиций склада
type ItemsHandler struct {
	logger      *slog.Logger
	itemStorage storage.ItemStorage
}

// NewItemsHandler создает новый handler для позиций
func NewItemsHandler(logger *slog.Logger, itemStorage storage.ItemStorage) *ItemsHandler {
	return &ItemsHandler{
		logger:      logger,
		itemStorage: itemStorage,
	}
}

// Create обрабатывает POST /api/v1/items
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create item request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		sendError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		sendError(h.logger, w, "description is required", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		sendError(h.logger, w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	item := &models.Item{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.itemStorage.CreateItem(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create item", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "item created", slog.String("item_id", item.ID))

	sendJSON(h.logger, w, item, http.StatusCreated)
}

// List обрабатывает GET /api/v1/items
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.itemStorage.ListItems(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []*models.Item{}
	}

	sendJSON(h.logger, w, items, http.StatusOK)
}

// Get обрабатывает GET /api/v1/items/{id}
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := r.PathValue("id")
	if itemID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	item, err := h.itemStorage.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			sendError(h.logger, w, "item not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get item", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, item, http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/items/{id}
// Частичное обновление: отсутствующие поля не меняются
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := r.PathValue("id")
	if itemID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	var req api.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update item request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == nil && req.Description == nil && req.Amount == nil {
		sendError(h.logger, w, "at least one field must be provided", http.StatusBadRequest)
		return
	}

	item, err := h.itemStorage.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			sendError(h.logger, w, "item not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get item", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			sendError(h.logger, w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			sendError(h.logger, w, "amount must not be negative", http.StatusBadRequest)
			return
		}
		item.Amount = *req.Amount
	}
	item.UpdatedAt = time.Now()

	if err := h.itemStorage.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			sendError(h.logger, w, "item not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update item", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "item updated", slog.String("item_id", item.ID))

	sendJSON(h.logger, w, item, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/items/{id}
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := r.PathValue("id")
	if itemID == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.itemStorage.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			sendError(h.logger, w, "item not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete item", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "item deleted", slog.String("item_id", itemID))

	w.WriteHeader(http.StatusNoContent)
}
