package pnl

import (
	"context"
	"fmt"
	"sync"

	"github.com/Fortunato28/mmb/common/idgen"
	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
)

// Aggregator is the append-only P&L balance-change log. Append is
// thread-safe on its own; SumOverMarket releases the lock before
// issuing external conversions so it never blocks concurrent appends
// during the round trip.
type Aggregator struct {
	mu         sync.Mutex
	gen        *idgen.Generator
	changes    []Change
	runningSum decimal.Decimal
}

// NewAggregator returns an empty aggregator whose record ids are drawn
// from gen.
func NewAggregator(gen *idgen.Generator) *Aggregator {
	return &Aggregator{gen: gen}
}

// Append assigns change a fresh id, records it, and returns the
// stamped copy.
func (a *Aggregator) Append(change Change) Change {
	a.mu.Lock()
	defer a.mu.Unlock()
	change.ID = a.gen.Next()
	a.changes = append(a.changes, change)
	a.runningSum = a.runningSum.Add(change.USDEquivalent)
	return change
}

// SumRaw returns the running sum of every record's USD-equivalent
// field, in constant time.
func (a *Aggregator) SumRaw() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runningSum
}

// SumOverMarket groups every record by currency, asks converter for a
// single batched quote per currency, and returns the USD-converted
// sum. It aborts on the first conversion error and honours ctx
// cancellation cooperatively; on either failure the P&L log itself is
// left unchanged.
func (a *Aggregator) SumOverMarket(ctx context.Context, converter USDConverter) (decimal.Decimal, error) {
	a.mu.Lock()
	snapshot := make([]Change, len(a.changes))
	copy(snapshot, a.changes)
	a.mu.Unlock()

	grouped := make(map[currency.Code]decimal.Decimal, len(snapshot))
	for _, c := range snapshot {
		grouped[c.CurrencyCode] = grouped[c.CurrencyCode].Add(c.SignedAmount)
	}

	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	default:
	}

	quotes, err := converter.ConvertToUSD(ctx, grouped)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for code, amount := range grouped {
		quote, ok := quotes[code]
		if !ok {
			return decimal.Zero, fmt.Errorf("pnl: missing usd quote for %s", code)
		}
		total = total.Add(amount.Mul(quote))
	}
	return total, nil
}

// Len reports how many records have been appended, for diagnostics
// and tests.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.changes)
}

// Records returns a copy of every change appended so far, in append
// order, for persistence.
func (a *Aggregator) Records() []Change {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Change, len(a.changes))
	copy(out, a.changes)
	return out
}

// Restore replaces the log with previously persisted records,
// recomputes the running sum, and bumps the id generator past the
// highest restored id so freshly appended records never reuse one.
func (a *Aggregator) Restore(records []Change) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.changes = make([]Change, len(records))
	copy(a.changes, records)

	a.runningSum = decimal.Zero
	var maxID uint64
	for _, c := range a.changes {
		a.runningSum = a.runningSum.Add(c.USDEquivalent)
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	a.gen.Bump(maxID)
}
