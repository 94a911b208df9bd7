package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/stockroom/internal/models"
	"github.com/iudanet/stockroom/internal/server/storage"
)

// CreateItem creates a new item in the storage
func (s *Storage) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, name, description, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Amount,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// GetItemByID retrieves item by ID
func (s *Storage) GetItemByID(ctx context.Context, itemID string) (*models.Item, error) {
	query := `
		SELECT id, name, description, amount, created_at, updated_at
		FROM items
		WHERE id = ?
	`

	item := &models.Item{}

	err := s.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Amount,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListItems retrieves all items ordered by creation time
func (s *Storage) ListItems(ctx context.Context) ([]*models.Item, error) {
	query := `
		SELECT id, name, description, amount, created_at, updated_at
		FROM items
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []*models.Item

	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Amount,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

// UpdateItem updates item information
func (s *Storage) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = ?, description = ?, amount = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Amount,
		item.UpdatedAt,
		item.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}

// DeleteItem deletes item by ID
func (s *Storage) DeleteItem(ctx context.Context, itemID string) error {
	query := `DELETE FROM items WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}
