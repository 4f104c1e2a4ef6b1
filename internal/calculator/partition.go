package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidItem is returned when an item carries a negative price.
	ErrInvalidItem = errors.New("invalid item")
	// ErrTooManyItems is returned when an exact search is requested for more
	// items than the caller allowed.
	ErrTooManyItems = errors.New("too many items for exact search")
)

// cancelCheckInterval is how many leaves are evaluated between context checks.
const cancelCheckInterval = 4096

// Item is a single unit on the receipt. A cart line with quantity N must be
// expanded into N items before it reaches the optimizer.
type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Party identifies who an item is assigned to.
type Party uint8

const (
	PartyA Party = iota
	PartyB
)

func (p Party) String() string {
	if p == PartyA {
		return "A"
	}
	return "B"
}

// Solution is the best assignment found by a search.
type Solution struct {
	PartyA  []Item
	PartyB  []Item
	MinCash decimal.Decimal
	// Leaves is the number of complete assignments evaluated.
	Leaves int64
}

// ValidateItems rejects items with a negative price.
func ValidateItems(items []Item) error {
	for i, item := range items {
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d (%q) has negative price %s", ErrInvalidItem, i, item.Name, item.Price)
		}
	}
	return nil
}

// leaf is the best complete assignment seen so far.
type leaf struct {
	assign []Party
	cash   decimal.Decimal
	found  bool
}

type searcher struct {
	ctx    context.Context
	items  []Item
	specA  VoucherSpec
	specB  VoucherSpec
	assign []Party
	leaves int64
}

// Search enumerates every assignment of items to the two parties and returns
// the one with the least total cash due after vouchers. Among equally cheap
// assignments the first one enumerated wins; items are tried on party A before
// party B, so earlier items lean towards A.
//
// The search is exponential in len(items). It checks ctx periodically and
// returns ctx's error if it is cancelled before completing.
func Search(ctx context.Context, items []Item, specA, specB VoucherSpec) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, fmt.Errorf("partition search not started: %w", err)
	}

	s := &searcher{
		ctx:    ctx,
		items:  items,
		specA:  specA,
		specB:  specB,
		assign: make([]Party, len(items)),
	}

	best, err := s.walk(0, decimal.Zero, decimal.Zero, leaf{})
	if err != nil {
		return Solution{Leaves: s.leaves}, fmt.Errorf("partition search aborted after %d leaves: %w", s.leaves, err)
	}

	sol := split(items, best.assign)
	sol.MinCash = best.cash
	sol.Leaves = s.leaves
	return sol, nil
}

// walk assigns items[i:] given the running subtotals of the items before i.
// Subtotals travel by value and s.assign[i] is overwritten on each branch,
// so nothing needs to be undone between siblings.
func (s *searcher) walk(i int, sumA, sumB decimal.Decimal, best leaf) (leaf, error) {
	if i == len(s.items) {
		return s.evaluate(sumA, sumB, best)
	}

	price := s.items[i].Price

	s.assign[i] = PartyA
	best, err := s.walk(i+1, sumA.Add(price), sumB, best)
	if err != nil || s.done(best) {
		return best, err
	}

	s.assign[i] = PartyB
	return s.walk(i+1, sumA, sumB.Add(price), best)
}

func (s *searcher) evaluate(sumA, sumB decimal.Decimal, best leaf) (leaf, error) {
	s.leaves++
	if s.leaves%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return best, err
		}
	}

	cash := totalCash(sumA, sumB, s.specA, s.specB)
	if best.found && !cash.LessThan(best.cash) {
		return best, nil
	}

	snapshot := make([]Party, len(s.assign))
	copy(snapshot, s.assign)
	return leaf{assign: snapshot, cash: cash, found: true}, nil
}

// done reports whether no later leaf can improve on best. Cash due is never
// negative, so a zero-cash leaf cannot be beaten under strict comparison.
func (s *searcher) done(best leaf) bool {
	return best.found && best.cash.IsZero()
}

// split materialises an assignment into the two parties' item lists,
// preserving input order.
func split(items []Item, assign []Party) Solution {
	sol := Solution{PartyA: []Item{}, PartyB: []Item{}, MinCash: decimal.Zero}
	for i, item := range items {
		if assign[i] == PartyA {
			sol.PartyA = append(sol.PartyA, item)
		} else {
			sol.PartyB = append(sol.PartyB, item)
		}
	}
	return sol
}
