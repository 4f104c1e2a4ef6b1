package calculator

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

var (
	mealA = VoucherSpec{UnitValue: d("7.50"), MaxUnits: 6}
	mealB = VoucherSpec{UnitValue: d("7.00"), MaxUnits: 6}
)

// bruteForceMinCash evaluates every assignment independently of Search.
func bruteForceMinCash(items []Item, specA, specB VoucherSpec) decimal.Decimal {
	var best decimal.Decimal
	for mask := 0; mask < 1<<len(items); mask++ {
		sumA, sumB := decimal.Zero, decimal.Zero
		for i, item := range items {
			if mask&(1<<i) != 0 {
				sumB = sumB.Add(item.Price)
			} else {
				sumA = sumA.Add(item.Price)
			}
		}
		cash := ApplyVouchers(sumA, specA).CashDue.Add(ApplyVouchers(sumB, specB).CashDue)
		if mask == 0 || cash.LessThan(best) {
			best = cash
		}
	}
	return best
}

func randomItems(r *rand.Rand, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Name:  string(rune('a' + r.Intn(6))),
			Price: decimal.New(int64(50+r.Intn(1500)), -2),
		}
	}
	return items
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func equalNames(got []Item, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Name != want[i] {
			return false
		}
	}
	return true
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		items    []Item
		specA    VoucherSpec
		specB    VoucherSpec
		wantCash string
		wantA    []string
		wantB    []string
	}{
		{
			// Putting everything on A costs the same 6.50 as wine alone on A,
			// and is enumerated first.
			name: "milk bread and wine",
			items: []Item{
				{Name: "milk", Price: d("3.00")},
				{Name: "bread", Price: d("2.00")},
				{Name: "wine", Price: d("9.00")},
			},
			specA:    VoucherSpec{UnitValue: d("7.50"), MaxUnits: 1},
			specB:    VoucherSpec{UnitValue: d("7.00"), MaxUnits: 1},
			wantCash: "6.50",
			wantA:    []string{"milk", "bread", "wine"},
			wantB:    []string{},
		},
		{
			name:     "single item stays with A on a tie",
			items:    []Item{{Name: "egg", Price: d("1.00")}},
			specA:    mealA,
			specB:    mealA,
			wantCash: "1.00",
			wantA:    []string{"egg"},
			wantB:    []string{},
		},
		{
			name:     "no items",
			items:    []Item{},
			specA:    mealA,
			specB:    mealB,
			wantCash: "0",
			wantA:    []string{},
			wantB:    []string{},
		},
		{
			name: "equal items split to use both vouchers",
			items: []Item{
				{Name: "x", Price: d("5.00")},
				{Name: "y", Price: d("5.00")},
			},
			specA:    VoucherSpec{UnitValue: d("5.00"), MaxUnits: 1},
			specB:    VoucherSpec{UnitValue: d("5.00"), MaxUnits: 1},
			wantCash: "0",
			wantA:    []string{"x"},
			wantB:    []string{"y"},
		},
		{
			name: "no units means everything is cash",
			items: []Item{
				{Name: "milk", Price: d("3.00")},
				{Name: "wine", Price: d("9.00")},
			},
			specA:    VoucherSpec{UnitValue: d("7.50"), MaxUnits: 0},
			specB:    VoucherSpec{UnitValue: d("7.00"), MaxUnits: 0},
			wantCash: "12.00",
			wantA:    []string{"milk", "wine"},
			wantB:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := Search(context.Background(), tt.items, tt.specA, tt.specB)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if !sol.MinCash.Equal(d(tt.wantCash)) {
				t.Errorf("MinCash = %s, want %s", sol.MinCash, tt.wantCash)
			}
			if !equalNames(sol.PartyA, tt.wantA...) {
				t.Errorf("PartyA = %v, want %v", names(sol.PartyA), tt.wantA)
			}
			if !equalNames(sol.PartyB, tt.wantB...) {
				t.Errorf("PartyB = %v, want %v", names(sol.PartyB), tt.wantB)
			}
		})
	}
}

func TestSearch_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	specs := []struct{ a, b VoucherSpec }{
		{mealA, mealB},
		{VoucherSpec{UnitValue: d("5.29"), MaxUnits: 2}, VoucherSpec{UnitValue: d("8.00"), MaxUnits: 1}},
		{VoucherSpec{UnitValue: d("0"), MaxUnits: 3}, VoucherSpec{UnitValue: d("4.00"), MaxUnits: 3}},
	}

	for n := 0; n <= 11; n++ {
		for _, sp := range specs {
			items := randomItems(r, n)
			sol, err := Search(context.Background(), items, sp.a, sp.b)
			if err != nil {
				t.Fatalf("n=%d: Search() error = %v", n, err)
			}
			want := bruteForceMinCash(items, sp.a, sp.b)
			if !sol.MinCash.Equal(want) {
				t.Errorf("n=%d: MinCash = %s, brute force = %s", n, sol.MinCash, want)
			}
			if len(sol.PartyA)+len(sol.PartyB) != n {
				t.Errorf("n=%d: assigned %d items", n, len(sol.PartyA)+len(sol.PartyB))
			}
			if !Sum(sol.PartyA).Add(Sum(sol.PartyB)).Equal(Sum(items)) {
				t.Errorf("n=%d: party subtotals do not add up to the receipt", n)
			}
			if !totalCash(Sum(sol.PartyA), Sum(sol.PartyB), sp.a, sp.b).Equal(sol.MinCash) {
				t.Errorf("n=%d: returned partition does not cost MinCash", n)
			}
		}
	}
}

func TestSearch_LeafCount(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(7)), 8)
	none := VoucherSpec{UnitValue: d("7.00")}

	sol, err := Search(context.Background(), items, none, none)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if sol.Leaves != 256 {
		t.Errorf("Leaves = %d, want 256", sol.Leaves)
	}
}

func TestSearch_StopsAtZeroCash(t *testing.T) {
	items := []Item{
		{Name: "a", Price: d("7.50")},
		{Name: "b", Price: d("7.50")},
		{Name: "c", Price: d("7.50")},
	}
	sol, err := Search(context.Background(), items, mealA, mealB)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !sol.MinCash.IsZero() {
		t.Errorf("MinCash = %s, want 0", sol.MinCash)
	}
	if sol.Leaves != 1 {
		t.Errorf("Leaves = %d, want 1", sol.Leaves)
	}
	if !equalNames(sol.PartyA, "a", "b", "c") {
		t.Errorf("PartyA = %v, want all items", names(sol.PartyA))
	}
}

func TestSearch_MoreUnitsNeverRaiseOptimum(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		items := randomItems(r, 7)
		prev := decimal.Zero
		for units := int64(0); units <= 4; units++ {
			specA := VoucherSpec{UnitValue: d("6.00"), MaxUnits: units}
			sol, err := Search(context.Background(), items, specA, mealB)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if units > 0 && sol.MinCash.GreaterThan(prev) {
				t.Errorf("trial %d: optimum rose from %s to %s at %d units", trial, prev, sol.MinCash, units)
			}
			prev = sol.MinCash
		}
	}
}

func TestSearch_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, randomItems(rand.New(rand.NewSource(1)), 4), mealA, mealB)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Search() error = %v, want context.Canceled", err)
	}
}

// flakyCtx reports cancellation from the n-th call to Err onwards.
type flakyCtx struct {
	context.Context
	calls    int
	cancelAt int
}

func (c *flakyCtx) Err() error {
	c.calls++
	if c.calls >= c.cancelAt {
		return context.Canceled
	}
	return nil
}

func TestSearch_CancelledMidway(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(5)), 14)
	none := VoucherSpec{UnitValue: d("7.00")}
	ctx := &flakyCtx{Context: context.Background(), cancelAt: 2}

	sol, err := Search(ctx, items, none, none)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Search() error = %v, want context.Canceled", err)
	}
	if sol.Leaves != cancelCheckInterval {
		t.Errorf("Leaves = %d, want %d", sol.Leaves, cancelCheckInterval)
	}
}

func TestValidateItems(t *testing.T) {
	if err := ValidateItems([]Item{{Name: "free sample", Price: d("0")}}); err != nil {
		t.Errorf("zero price rejected: %v", err)
	}
	err := ValidateItems([]Item{{Name: "ok", Price: d("1")}, {Name: "refund", Price: d("-2.00")}})
	if !errors.Is(err, ErrInvalidItem) {
		t.Errorf("ValidateItems() error = %v, want ErrInvalidItem", err)
	}
}
