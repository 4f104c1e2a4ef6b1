package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Greedy builds an assignment in a single pass: items are visited from the
// most to the least expensive and each goes to whichever party yields the
// lower total cash for the items placed so far, preferring A on ties.
//
// It runs in O(n log n) and is not guaranteed to be optimal.
func Greedy(items []Item, specA, specB VoucherSpec) Solution {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return items[order[x]].Price.GreaterThan(items[order[y]].Price)
	})

	assign := make([]Party, len(items))
	sumA, sumB := decimal.Zero, decimal.Zero
	for _, i := range order {
		price := items[i].Price
		toA := totalCash(sumA.Add(price), sumB, specA, specB)
		toB := totalCash(sumA, sumB.Add(price), specA, specB)
		if toB.LessThan(toA) {
			assign[i] = PartyB
			sumB = sumB.Add(price)
		} else {
			assign[i] = PartyA
			sumA = sumA.Add(price)
		}
	}

	sol := split(items, assign)
	sol.MinCash = totalCash(sumA, sumB, specA, specB)
	sol.Leaves = 1
	return sol
}

func totalCash(sumA, sumB decimal.Decimal, specA, specB VoucherSpec) decimal.Decimal {
	return ApplyVouchers(sumA, specA).CashDue.Add(ApplyVouchers(sumB, specB).CashDue)
}
