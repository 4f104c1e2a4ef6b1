package models

import "github.com/mmynk/splitticket/internal/calculator"

// Settings holds a household's voucher terms.
type Settings struct {
	UserID string

	// PartyA and PartyB are the two partners' voucher terms.
	PartyA calculator.VoucherSpec
	PartyB calculator.VoucherSpec

	// NonVoucherCategories lists cart categories vouchers cannot pay for.
	NonVoucherCategories []string

	UpdatedAt int64
}
