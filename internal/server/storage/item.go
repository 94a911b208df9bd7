package storage

import (
	"context"

	"github.com/iudanet/stockroom/internal/models"
)

// ItemStorage defines interface for item persistence
type ItemStorage interface {
	// CreateItem creates a new item in the storage
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItemByID retrieves item by ID
	// Returns ErrItemNotFound if item doesn't exist
	GetItemByID(ctx context.Context, itemID string) (*models.Item, error)

	// ListItems retrieves all items ordered by creation time
	// Returns empty slice if no items found
	ListItems(ctx context.Context) ([]*models.Item, error)

	// UpdateItem updates item information
	// Returns ErrItemNotFound if item doesn't exist
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem deletes item by ID
	// Returns ErrItemNotFound if item doesn't exist
	DeleteItem(ctx context.Context, itemID string) error
}
