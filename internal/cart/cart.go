// Package cart turns receipt lines into the unit items the optimizer works on
// and folds items that cannot be paid with vouchers back into the result.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitticket/internal/calculator"
)

// ErrInvalidLine is returned for a line without a name, with a non-positive
// price or with a quantity below one.
var ErrInvalidLine = errors.New("invalid cart line")

var two = decimal.NewFromInt(2)

// Line is one row of the cart as entered or scanned.
type Line struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Category   string          `json:"category,omitempty"`
	NonVoucher bool            `json:"nonVoucher,omitempty"`
	Barcode    string          `json:"barcode,omitempty"`
}

// Validate checks a single line.
func (l Line) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLine)
	}
	if !l.Price.IsPositive() {
		return fmt.Errorf("%w: %q has non-positive price %s", ErrInvalidLine, l.Name, l.Price)
	}
	if l.Quantity < 1 {
		return fmt.Errorf("%w: %q has quantity %d", ErrInvalidLine, l.Name, l.Quantity)
	}
	return nil
}

func (l Line) key() string {
	return fmt.Sprintf("%s|%t", calculator.NormalizeName(l.Name), l.NonVoucher)
}

// Consolidate merges lines that share a name (case-insensitive) and voucher
// flag by adding their quantities. The first line of each identity is kept,
// in first-seen order.
func Consolidate(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.key()]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.key()] = len(out)
		out = append(out, l)
	}
	return out
}

// Expand validates lines and unrolls quantities into unit items, separating
// the items vouchers may pay for from those they may not. A line is excluded
// from vouchers when it is flagged so or its category is listed in
// nonVoucherCategories (compared case-insensitively).
func Expand(lines []Line, nonVoucherCategories []string) (voucher, nonVoucher []calculator.Item, err error) {
	excluded := make(map[string]bool, len(nonVoucherCategories))
	for _, c := range nonVoucherCategories {
		excluded[strings.ToLower(strings.TrimSpace(c))] = true
	}

	voucher = []calculator.Item{}
	nonVoucher = []calculator.Item{}
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i, err)
		}
		item := calculator.Item{Name: strings.TrimSpace(l.Name), Price: l.Price}
		skip := l.NonVoucher || excluded[strings.ToLower(strings.TrimSpace(l.Category))]
		for q := 0; q < l.Quantity; q++ {
			if skip {
				nonVoucher = append(nonVoucher, item)
			} else {
				voucher = append(voucher, item)
			}
		}
	}
	return voucher, nonVoucher, nil
}

// Receipt is the optimizer's result with non-voucher items shared equally
// between the two parties.
type Receipt struct {
	calculator.FormattedResult
	NonVoucherItems []calculator.GroupedItem `json:"nonVoucherItems"`
	NonVoucherTotal decimal.Decimal          `json:"nonVoucherTotal"`
}

// Checkout adds half of the non-voucher total to each party's cash due and
// the whole of it to the grand total and total cash.
func Checkout(result calculator.FormattedResult, nonVoucher []calculator.Item) Receipt {
	total := calculator.Sum(nonVoucher)
	half := total.Div(two)

	result.PartyA.CashDue = result.PartyA.CashDue.Add(half)
	result.PartyB.CashDue = result.PartyB.CashDue.Add(total.Sub(half))
	result.TotalCash = result.TotalCash.Add(total)
	result.GrandTotal = result.GrandTotal.Add(total)

	return Receipt{
		FormattedResult: result,
		NonVoucherItems: calculator.Group(nonVoucher),
		NonVoucherTotal: total,
	}
}
