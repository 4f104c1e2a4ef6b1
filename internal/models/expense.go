package models

import "github.com/mmynk/splitticket/internal/cart"

// Expense is a checkout saved to the household's history.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// UserID is the household that saved the expense.
	UserID string `json:"userId"`

	// CreatedAt is the Unix timestamp when the expense was saved.
	CreatedAt int64 `json:"createdAt"`

	// Algorithm names the optimizer that produced the split
	// ("partition-backtracking" or "greedy").
	Algorithm string `json:"algorithm"`

	// ComputationMillis is how long the optimizer ran.
	ComputationMillis int64 `json:"computationMillis"`

	// Receipt is the split result exactly as it was returned to the client.
	Receipt cart.Receipt `json:"receipt"`
}
