package calculator

import "github.com/shopspring/decimal"

// VoucherSpec describes one party's vouchers: each unit is worth UnitValue and
// at most MaxUnits of them can be spent on a single receipt.
type VoucherSpec struct {
	UnitValue decimal.Decimal `json:"unitValue"`
	MaxUnits  int64           `json:"maxUnits"`
}

// Coverage is the effect of applying whole voucher units to one subtotal.
type Coverage struct {
	Covered   decimal.Decimal
	CashDue   decimal.Decimal
	UnitsUsed int64
}

// ApplyVouchers spends as many whole units of spec as fit inside subtotal,
// capped at spec.MaxUnits. A non-positive unit value covers nothing.
//
// subtotal must not be negative.
func ApplyVouchers(subtotal decimal.Decimal, spec VoucherSpec) Coverage {
	if !spec.UnitValue.IsPositive() || spec.MaxUnits <= 0 {
		return Coverage{Covered: decimal.Zero, CashDue: subtotal}
	}

	// Quotient truncated toward zero at zero decimal places is floor for
	// non-negative operands.
	q, _ := subtotal.QuoRem(spec.UnitValue, 0)
	units := spec.MaxUnits
	if q.LessThan(decimal.NewFromInt(units)) {
		units = q.IntPart()
	}

	covered := spec.UnitValue.Mul(decimal.NewFromInt(units))
	return Coverage{
		Covered:   covered,
		CashDue:   subtotal.Sub(covered),
		UnitsUsed: units,
	}
}
