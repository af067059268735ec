package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
)

// positionKey addresses one (exchange account, currency pair) position
// cell.
type positionKey struct {
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
}

// PositionTracker holds the signed, fill-accumulated position per
// (exchange account, currency pair), in amount-currency units. It
// carries no locking of its own.
type PositionTracker struct {
	positions map[positionKey]decimal.Decimal
	reported  map[positionKey]bool
}

// NewPositionTracker returns an empty tracker.
func NewPositionTracker() *PositionTracker {
	return &PositionTracker{
		positions: make(map[positionKey]decimal.Decimal),
		reported:  make(map[positionKey]bool),
	}
}

// ApplyFillDelta adjusts the position by signedAmount: positive for
// buys, negative for sells, already in amount-currency units.
func (t *PositionTracker) ApplyFillDelta(acc account.ExchangeAccountID, pair currency.Pair, signedAmount decimal.Decimal) {
	key := positionKey{ExchangeAccountID: acc, Pair: pair}
	t.positions[key] = t.positions[key].Add(signedAmount)
}

// IngestReportedPosition sets the position counter from an
// exchange-reported snapshot the first time it is called for (acc,
// pair); subsequent calls are ignored, because the exchange re-reports
// on every snapshot and would otherwise overwrite local fills still in
// flight.
func (t *PositionTracker) IngestReportedPosition(acc account.ExchangeAccountID, pair currency.Pair, amount decimal.Decimal) {
	key := positionKey{ExchangeAccountID: acc, Pair: pair}
	if t.reported[key] {
		return
	}
	t.reported[key] = true
	t.positions[key] = amount
}

// Get returns the signed position for (acc, pair), or zero if none has
// ever been recorded.
func (t *PositionTracker) Get(acc account.ExchangeAccountID, pair currency.Pair) decimal.Decimal {
	return t.positions[positionKey{ExchangeAccountID: acc, Pair: pair}]
}

// clone returns a deep copy of the tracker.
func (t *PositionTracker) clone() *PositionTracker {
	out := NewPositionTracker()
	for k, v := range t.positions {
		out.positions[k] = v
	}
	for k, v := range t.reported {
		out.reported[k] = v
	}
	return out
}
