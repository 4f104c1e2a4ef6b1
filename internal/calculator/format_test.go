package calculator

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
)

func TestFormat(t *testing.T) {
	items := []Item{
		{Name: "milk", Price: d("3.00")},
		{Name: "bread", Price: d("2.00")},
		{Name: "wine", Price: d("9.00")},
	}
	specA := VoucherSpec{UnitValue: d("7.50"), MaxUnits: 1}
	specB := VoucherSpec{UnitValue: d("7.00"), MaxUnits: 1}
	sol := Solution{
		PartyA: []Item{items[2]},
		PartyB: []Item{items[0], items[1]},
	}

	got := Format(sol, items, specA, specB)

	// A: 9.00 -> one 7.50 unit, 1.50 cash. B: 5.00 is below 7.00, all cash.
	checks := []struct {
		name string
		got  string
		want string
	}{
		{"PartyA.Subtotal", got.PartyA.Subtotal.String(), "9"},
		{"PartyA.Covered", got.PartyA.Covered.String(), "7.5"},
		{"PartyA.CashDue", got.PartyA.CashDue.String(), "1.5"},
		{"PartyB.Subtotal", got.PartyB.Subtotal.String(), "5"},
		{"PartyB.Covered", got.PartyB.Covered.String(), "0"},
		{"PartyB.CashDue", got.PartyB.CashDue.String(), "5"},
		{"GrandTotal", got.GrandTotal.String(), "14"},
		{"TotalCovered", got.TotalCovered.String(), "7.5"},
		{"TotalCash", got.TotalCash.String(), "6.5"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.PartyA.UnitsUsed != 1 || got.PartyB.UnitsUsed != 0 {
		t.Errorf("UnitsUsed = %d/%d, want 1/0", got.PartyA.UnitsUsed, got.PartyB.UnitsUsed)
	}
}

func TestFormat_EmptyReceipt(t *testing.T) {
	sol, err := Search(context.Background(), nil, mealA, mealB)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	got := Format(sol, nil, mealA, mealB)

	if !got.GrandTotal.IsZero() || !got.TotalCash.IsZero() || !got.TotalCovered.IsZero() {
		t.Errorf("totals = %s/%s/%s, want all zero", got.GrandTotal, got.TotalCash, got.TotalCovered)
	}
	if len(got.PartyA.Items) != 0 || len(got.PartyB.Items) != 0 {
		t.Errorf("expected no grouped items, got %d/%d", len(got.PartyA.Items), len(got.PartyB.Items))
	}
}

func TestFormat_Conservation(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 0; n <= 10; n++ {
		items := randomItems(r, n)
		sol, err := Search(context.Background(), items, mealA, mealB)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		got := Format(sol, items, mealA, mealB)

		if !got.GrandTotal.Equal(Sum(items)) {
			t.Errorf("n=%d: GrandTotal = %s, want %s", n, got.GrandTotal, Sum(items))
		}
		if !got.GrandTotal.Equal(got.TotalCovered.Add(got.TotalCash)) {
			t.Errorf("n=%d: GrandTotal %s != covered %s + cash %s", n, got.GrandTotal, got.TotalCovered, got.TotalCash)
		}
		if !got.TotalCash.Equal(sol.MinCash) {
			t.Errorf("n=%d: TotalCash = %s, search said %s", n, got.TotalCash, sol.MinCash)
		}
		for _, p := range []PartyResult{got.PartyA, got.PartyB} {
			if p.CashDue.IsNegative() || p.Covered.IsNegative() {
				t.Errorf("n=%d: negative party amounts %s/%s", n, p.CashDue, p.Covered)
			}
			if p.CashDue.GreaterThan(p.Subtotal) {
				t.Errorf("n=%d: cash %s exceeds subtotal %s", n, p.CashDue, p.Subtotal)
			}
		}
	}
}

func TestFormat_DisabledVouchers(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(2)), 6)
	off := VoucherSpec{UnitValue: d("0"), MaxUnits: 6}

	sol, err := Search(context.Background(), items, off, off)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	got := Format(sol, items, off, off)

	if !got.TotalCovered.IsZero() {
		t.Errorf("TotalCovered = %s, want 0", got.TotalCovered)
	}
	if !got.TotalCash.Equal(got.GrandTotal) {
		t.Errorf("TotalCash = %s, want %s", got.TotalCash, got.GrandTotal)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(9)), 8)
	sol, err := Search(context.Background(), items, mealA, mealB)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	first, err := json.Marshal(Format(sol, items, mealA, mealB))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := json.Marshal(Format(sol, items, mealA, mealB))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Format is not deterministic:\n%s\n%s", first, second)
	}
}

func TestGroup(t *testing.T) {
	items := []Item{
		{Name: "Milk", Price: d("1.20")},
		{Name: "bread", Price: d("2.00")},
		{Name: "milk ", Price: d("1.20")},
		{Name: "MILK", Price: d("1.20")},
		{Name: "eggs", Price: d("3.10")},
	}

	got := Group(items)

	want := []struct {
		name string
		qty  int
	}{
		{"Milk", 3},
		{"bread", 1},
		{"eggs", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("Group() returned %d groups, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Quantity != w.qty {
			t.Errorf("group %d = %s x%d, want %s x%d", i, got[i].Name, got[i].Quantity, w.name, w.qty)
		}
	}
}
