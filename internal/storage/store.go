// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitticket/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for household data: accounts, expense history,
// the product archive and voucher settings.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore

	// SaveExpense appends an expense to the household's history.
	// expense.ID and expense.CreatedAt are populated when empty.
	SaveExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns the household's history, newest first.
	ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error)

	// ClearExpenses deletes the household's history and reports how many
	// expenses were removed.
	ClearExpenses(ctx context.Context, userID string) (int64, error)

	// SaveProduct inserts or replaces an archived product keyed by barcode.
	SaveProduct(ctx context.Context, product *models.Product) error

	// ListProducts returns the household's archived products by name.
	ListProducts(ctx context.Context, userID string) ([]*models.Product, error)

	// DeleteProduct removes an archived product.
	// Returns ErrNotFound if the barcode is not archived.
	DeleteProduct(ctx context.Context, userID, barcode string) error

	// GetSettings returns the household's saved settings.
	// Returns ErrNotFound if none have been saved yet.
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)

	// SaveSettings inserts or replaces the household's settings.
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore covers account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
