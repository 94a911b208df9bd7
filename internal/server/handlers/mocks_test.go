package handlers

import (
	"context"
	"time"

	"github.com/iudanet/stockroom/internal/models"
	"github.com/iudanet/stockroom/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // email -> User
	createError error
	getError    error
	updateError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var users []*models.User
	for _, user := range m.users {
		cp := *user
		users = append(users, &cp)
	}
	return users, nil
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	for email, existing := range m.users {
		if existing.ID == user.ID {
			if email != user.Email {
				if _, taken := m.users[user.Email]; taken {
					return storage.ErrUserAlreadyExists
				}
				delete(m.users, email)
			}
			cp := *user
			m.users[user.Email] = &cp
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, id string) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockTokenStorage is a mock implementation of TokenStorage for testing.
// Mirrors the store contract: validity is re-checked on every read.
type mockTokenStorage struct {
	tokens    map[string]*models.RefreshToken // token value -> record
	saveError error
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockTokenStorage) GetValidRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	record, ok := m.tokens[token]
	if !ok || !time.Now().Before(record.ExpiresAt) {
		return nil, storage.ErrTokenNotFound
	}
	cp := *record
	return &cp, nil
}

func (m *mockTokenStorage) DeleteValidRefreshToken(ctx context.Context, token string) error {
	record, ok := m.tokens[token]
	if !ok || !time.Now().Before(record.ExpiresAt) {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, token)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	deleted := 0
	for value, record := range m.tokens {
		if record.UserID == userID {
			delete(m.tokens, value)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	deleted := 0
	for value, record := range m.tokens {
		if !time.Now().Before(record.ExpiresAt) {
			delete(m.tokens, value)
			deleted++
		}
	}
	return deleted, nil
}

// mockItemStorage is a mock implementation of ItemStorage for testing
type mockItemStorage struct {
	items       map[string]*models.Item
	createError error
	getError    error
}

func newMockItemStorage() *mockItemStorage {
	return &mockItemStorage{items: make(map[string]*models.Item)}
}

func (m *mockItemStorage) CreateItem(ctx context.Context, item *models.Item) error {
	if m.createError != nil {
		return m.createError
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemStorage) GetItemByID(ctx context.Context, itemID string) (*models.Item, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	item, ok := m.items[itemID]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockItemStorage) ListItems(ctx context.Context) ([]*models.Item, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var items []*models.Item
	for _, item := range m.items {
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}

func (m *mockItemStorage) UpdateItem(ctx context.Context, item *models.Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return storage.ErrItemNotFound
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemStorage) DeleteItem(ctx context.Context, itemID string) error {
	if _, ok := m.items[itemID]; !ok {
		return storage.ErrItemNotFound
	}
	delete(m.items, itemID)
	return nil
}
