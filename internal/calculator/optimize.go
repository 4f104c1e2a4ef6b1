package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Algorithm names reported with every result.
const (
	AlgorithmExact  = "partition-backtracking"
	AlgorithmGreedy = "greedy"
)

// Options bounds how much work Optimize may spend on the exact search.
type Options struct {
	// ExactLimit is the largest item count solved exactly. Zero means no limit.
	ExactLimit int
	// Timeout caps the exact search. Zero means only ctx bounds it.
	Timeout time.Duration
	// Fallback switches to the greedy heuristic instead of failing when
	// ExactLimit is exceeded or Timeout expires.
	Fallback bool
}

// Result is a formatted split together with how it was obtained.
type Result struct {
	FormattedResult
	Algorithm string
	Leaves    int64
	Elapsed   time.Duration
}

// Optimize validates items, finds the cheapest split and formats it.
func Optimize(ctx context.Context, items []Item, specA, specB VoucherSpec, opts Options) (Result, error) {
	start := time.Now()
	if err := ValidateItems(items); err != nil {
		return Result{}, err
	}

	sol, algorithm, err := solve(ctx, items, specA, specB, opts)
	if err != nil {
		return Result{}, err
	}

	return Result{
		FormattedResult: Format(sol, items, specA, specB),
		Algorithm:       algorithm,
		Leaves:          sol.Leaves,
		Elapsed:         time.Since(start),
	}, nil
}

func solve(ctx context.Context, items []Item, specA, specB VoucherSpec, opts Options) (Solution, string, error) {
	if opts.ExactLimit > 0 && len(items) > opts.ExactLimit {
		if !opts.Fallback {
			return Solution{}, "", fmt.Errorf("%w: %d items, limit %d", ErrTooManyItems, len(items), opts.ExactLimit)
		}
		return Greedy(items, specA, specB), AlgorithmGreedy, nil
	}

	searchCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sol, err := Search(searchCtx, items, specA, specB)
	if err == nil {
		return sol, AlgorithmExact, nil
	}

	// Only our own deadline may be converted into a fallback; a cancelled or
	// expired parent context is the caller giving up.
	if opts.Fallback && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		greedy := Greedy(items, specA, specB)
		greedy.Leaves += sol.Leaves
		return greedy, AlgorithmGreedy, nil
	}
	return Solution{}, "", err
}
