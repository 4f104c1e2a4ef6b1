// Package models defines the persisted domain models for Splitticket.
//
// # Models
//
//   - User: a household account. Two partners share one account; its
//     history, product archive and settings belong to the household.
//   - Expense: a saved checkout, storing the split receipt verbatim.
//   - Product: a barcode scanned into the household's product archive.
//   - Settings: the household's voucher terms and non-voucher categories.
//
// Money is carried as decimal.Decimal throughout; nothing here uses floats.
// Relationships are expressed with ID strings rather than pointers.
package models
