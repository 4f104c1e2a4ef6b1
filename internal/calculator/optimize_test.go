package calculator

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestGreedy(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	for n := 0; n <= 10; n++ {
		items := randomItems(r, n)
		greedy := Greedy(items, mealA, mealB)
		exact, err := Search(context.Background(), items, mealA, mealB)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if len(greedy.PartyA)+len(greedy.PartyB) != n {
			t.Errorf("n=%d: greedy assigned %d items", n, len(greedy.PartyA)+len(greedy.PartyB))
		}
		if greedy.MinCash.LessThan(exact.MinCash) {
			t.Errorf("n=%d: greedy %s beat the exact optimum %s", n, greedy.MinCash, exact.MinCash)
		}
		if !totalCash(Sum(greedy.PartyA), Sum(greedy.PartyB), mealA, mealB).Equal(greedy.MinCash) {
			t.Errorf("n=%d: greedy partition does not cost MinCash", n)
		}
	}
}

func TestGreedy_PlacesExpensiveItemsFirst(t *testing.T) {
	items := []Item{
		{Name: "milk", Price: d("3.00")},
		{Name: "bread", Price: d("2.00")},
		{Name: "wine", Price: d("9.00")},
	}
	specA := VoucherSpec{UnitValue: d("7.50"), MaxUnits: 1}
	specB := VoucherSpec{UnitValue: d("7.00"), MaxUnits: 1}

	got := Greedy(items, specA, specB)

	if !got.MinCash.Equal(d("6.50")) {
		t.Errorf("MinCash = %s, want 6.50", got.MinCash)
	}
	if len(got.PartyA) == 0 || got.PartyA[len(got.PartyA)-1].Name != "wine" {
		t.Errorf("PartyA = %v, want wine on A", names(got.PartyA))
	}
}

func TestOptimize(t *testing.T) {
	items := []Item{
		{Name: "pasta", Price: d("1.49")},
		{Name: "tomatoes", Price: d("2.39")},
		{Name: "cheese", Price: d("6.80")},
		{Name: "pasta", Price: d("1.49")},
		{Name: "olive oil", Price: d("8.90")},
	}

	got, err := Optimize(context.Background(), items, mealA, mealB, Options{ExactLimit: 20})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if got.Algorithm != AlgorithmExact {
		t.Errorf("Algorithm = %q, want %q", got.Algorithm, AlgorithmExact)
	}
	if !got.TotalCash.Equal(bruteForceMinCash(items, mealA, mealB)) {
		t.Errorf("TotalCash = %s, want %s", got.TotalCash, bruteForceMinCash(items, mealA, mealB))
	}
	if !got.GrandTotal.Equal(d("21.07")) {
		t.Errorf("GrandTotal = %s, want 21.07", got.GrandTotal)
	}
	if got.Leaves == 0 {
		t.Error("expected leaves to be counted")
	}
}

func TestOptimize_Limits(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(4)), 6)

	tests := []struct {
		name          string
		opts          Options
		wantErr       error
		wantAlgorithm string
	}{
		{
			name:    "over the limit without fallback",
			opts:    Options{ExactLimit: 5},
			wantErr: ErrTooManyItems,
		},
		{
			name:          "over the limit with fallback",
			opts:          Options{ExactLimit: 5, Fallback: true},
			wantAlgorithm: AlgorithmGreedy,
		},
		{
			name:          "at the limit",
			opts:          Options{ExactLimit: 6},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "no limit",
			opts:          Options{},
			wantAlgorithm: AlgorithmExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Optimize(context.Background(), items, mealA, mealB, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Optimize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Optimize() error = %v", err)
			}
			if got.Algorithm != tt.wantAlgorithm {
				t.Errorf("Algorithm = %q, want %q", got.Algorithm, tt.wantAlgorithm)
			}
			if !got.GrandTotal.Equal(got.TotalCovered.Add(got.TotalCash)) {
				t.Errorf("GrandTotal %s != covered %s + cash %s", got.GrandTotal, got.TotalCovered, got.TotalCash)
			}
		})
	}
}

func TestOptimize_TimeoutFallsBackToGreedy(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(8)), 20)
	none := VoucherSpec{UnitValue: d("7.00")}

	got, err := Optimize(context.Background(), items, none, none, Options{Timeout: time.Nanosecond, Fallback: true})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if got.Algorithm != AlgorithmGreedy {
		t.Errorf("Algorithm = %q, want %q", got.Algorithm, AlgorithmGreedy)
	}
}

func TestOptimize_TimeoutWithoutFallback(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(8)), 20)
	none := VoucherSpec{UnitValue: d("7.00")}

	_, err := Optimize(context.Background(), items, none, none, Options{Timeout: time.Nanosecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Optimize() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestOptimize_CallerCancellationIsNotMasked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Optimize(ctx, randomItems(rand.New(rand.NewSource(1)), 3), mealA, mealB, Options{Fallback: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Optimize() error = %v, want context.Canceled", err)
	}
}

func TestOptimize_RejectsNegativePrice(t *testing.T) {
	_, err := Optimize(context.Background(), []Item{{Name: "refund", Price: d("-1")}}, mealA, mealB, Options{})
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("Optimize() error = %v, want ErrInvalidItem", err)
	}
}
