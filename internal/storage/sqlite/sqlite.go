// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps the foreign_keys pragma in effect for every query
	// and serialises writers.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveExpense persists an expense, storing the receipt verbatim as JSON.
func (s *SQLiteStore) SaveExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	receipt, err := json.Marshal(expense.Receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, created_at, algorithm, computation_ms,
			grand_total, party_a_cash, party_b_cash, total_cash, receipt_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.UserID,
		expense.CreatedAt,
		expense.Algorithm,
		expense.ComputationMillis,
		expense.Receipt.GrandTotal,
		expense.Receipt.PartyA.CashDue,
		expense.Receipt.PartyB.CashDue,
		expense.Receipt.TotalCash,
		string(receipt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// ListExpenses returns a household's expenses, most recent first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, algorithm, computation_ms, receipt_json
		FROM expenses
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		var (
			expense models.Expense
			receipt string
		)
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.CreatedAt,
			&expense.Algorithm,
			&expense.ComputationMillis,
			&receipt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if err := json.Unmarshal([]byte(receipt), &expense.Receipt); err != nil {
			return nil, fmt.Errorf("failed to decode receipt of expense %s: %w", expense.ID, err)
		}
		expenses = append(expenses, &expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ClearExpenses deletes every expense belonging to a household.
func (s *SQLiteStore) ClearExpenses(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared expenses: %w", err)
	}
	return n, nil
}
