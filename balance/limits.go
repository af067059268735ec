package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// limitKey addresses one (strategy descriptor, exchange account,
// currency pair) amount-limit cell.
type limitKey struct {
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
}

// LimitManager holds the optional hard cap on net exposure, in
// amount-currency units, per (strategy descriptor, exchange account,
// currency pair). It carries no locking of its own.
type LimitManager struct {
	limits map[limitKey]decimal.Decimal
}

// NewLimitManager returns an empty manager (no limits set).
func NewLimitManager() *LimitManager {
	return &LimitManager{limits: make(map[limitKey]decimal.Decimal)}
}

// SetTargetAmountLimit sets the maximum absolute net exposure
// permitted for (descriptor, account, pair). limit is unsigned.
func (m *LimitManager) SetTargetAmountLimit(desc strategy.Descriptor, acc account.ExchangeAccountID, pair currency.Pair, limit decimal.Decimal) {
	m.limits[limitKey{Descriptor: desc, ExchangeAccountID: acc, Pair: pair}] = limit
}

// GetLimit returns the configured limit for (descriptor, account,
// pair), or nil when none has been set.
func (m *LimitManager) GetLimit(desc strategy.Descriptor, acc account.ExchangeAccountID, pair currency.Pair) *decimal.Decimal {
	key := limitKey{Descriptor: desc, ExchangeAccountID: acc, Pair: pair}
	limit, ok := m.limits[key]
	if !ok {
		return nil
	}
	return &limit
}

// clone returns a deep copy of the manager.
func (m *LimitManager) clone() *LimitManager {
	out := NewLimitManager()
	for k, v := range m.limits {
		out.limits[k] = v
	}
	return out
}
