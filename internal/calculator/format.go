package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupedItem is a run of same-named items collapsed for display.
type GroupedItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// PartyResult is one party's share of the receipt after vouchers.
type PartyResult struct {
	Items     []GroupedItem   `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Covered   decimal.Decimal `json:"covered"`
	CashDue   decimal.Decimal `json:"cashDue"`
	UnitsUsed int64           `json:"unitsUsed"`
}

// FormattedResult is the report handed back to callers and stored in history.
type FormattedResult struct {
	PartyA       PartyResult     `json:"partyA"`
	PartyB       PartyResult     `json:"partyB"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	TotalCovered decimal.Decimal `json:"totalCovered"`
	TotalCash    decimal.Decimal `json:"totalCash"`
}

// Format turns a solution into a report. Subtotals and coverage are
// recomputed from the solution's item lists rather than trusted from the
// search, and the grand total is taken over allItems.
func Format(sol Solution, allItems []Item, specA, specB VoucherSpec) FormattedResult {
	a := partyResult(sol.PartyA, specA)
	b := partyResult(sol.PartyB, specB)

	return FormattedResult{
		PartyA:       a,
		PartyB:       b,
		GrandTotal:   Sum(allItems),
		TotalCovered: a.Covered.Add(b.Covered),
		TotalCash:    a.CashDue.Add(b.CashDue),
	}
}

func partyResult(items []Item, spec VoucherSpec) PartyResult {
	subtotal := Sum(items)
	cov := ApplyVouchers(subtotal, spec)
	return PartyResult{
		Items:     Group(items),
		Subtotal:  subtotal,
		Covered:   cov.Covered,
		CashDue:   cov.CashDue,
		UnitsUsed: cov.UnitsUsed,
	}
}

// Sum adds up item prices.
func Sum(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

// Group collapses items sharing a name (case-insensitive, trimmed) into one
// entry per name in first-seen order. The first item seen supplies the
// displayed name and price.
func Group(items []Item) []GroupedItem {
	groups := []GroupedItem{}
	index := make(map[string]int)
	for _, item := range items {
		key := NormalizeName(item.Name)
		if i, ok := index[key]; ok {
			groups[i].Quantity++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, GroupedItem{Name: item.Name, Price: item.Price, Quantity: 1})
	}
	return groups
}

// NormalizeName is the identity used when grouping items by name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
