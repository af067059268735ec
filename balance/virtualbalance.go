package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// reportedKey addresses one (exchange account, currency) cell of the
// exchange-reported balance map.
type reportedKey struct {
	ExchangeAccountID account.ExchangeAccountID
	CurrencyCode       currency.Code
}

// diffKey addresses one strategy-scoped virtual diff cell.
type diffKey struct {
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
	CurrencyCode      currency.Code
}

// VirtualBalanceHolder holds the exchange-reported balance per
// (exchange account, currency) plus a strategy-scoped diff map that
// accumulates reservations, fills, and commissions. It carries no
// locking of its own; callers serialise access under the façade's
// lock.
type VirtualBalanceHolder struct {
	reported map[reportedKey]decimal.Decimal
	diffs    map[diffKey]decimal.Decimal
}

// NewVirtualBalanceHolder returns an empty holder.
func NewVirtualBalanceHolder() *VirtualBalanceHolder {
	return &VirtualBalanceHolder{
		reported: make(map[reportedKey]decimal.Decimal),
		diffs:    make(map[diffKey]decimal.Decimal),
	}
}

// UpdateBalances replaces the reported balance for each listed
// currency under account; currencies not listed are untouched.
func (h *VirtualBalanceHolder) UpdateBalances(acc account.ExchangeAccountID, balances map[currency.Code]decimal.Decimal) {
	for code, amount := range balances {
		h.reported[reportedKey{ExchangeAccountID: acc, CurrencyCode: code}] = amount
	}
}

// ReportedBalance returns the last-reported balance for (account,
// currency), or zero if none has ever been reported.
func (h *VirtualBalanceHolder) ReportedBalance(acc account.ExchangeAccountID, code currency.Code) decimal.Decimal {
	return h.reported[reportedKey{ExchangeAccountID: acc, CurrencyCode: code}]
}

// AddDiff accumulates delta into the strategy-scoped diff cell
// addressed by req.
func (h *VirtualBalanceHolder) AddDiff(req BalanceRequest, delta decimal.Decimal) {
	key := diffKey{
		Descriptor:        req.Descriptor,
		ExchangeAccountID: req.ExchangeAccountID,
		Pair:              req.Pair,
		CurrencyCode:      req.CurrencyCode,
	}
	h.diffs[key] = h.diffs[key].Add(delta)
}

// Diff returns the accumulated diff for req, or zero if none.
func (h *VirtualBalanceHolder) Diff(req BalanceRequest) decimal.Decimal {
	return h.diffs[diffKey{
		Descriptor:        req.Descriptor,
		ExchangeAccountID: req.ExchangeAccountID,
		Pair:              req.Pair,
		CurrencyCode:      req.CurrencyCode,
	}]
}

// GetVirtualBalance returns reported + diff for req's currency code.
// When symbol is non-nil and the request currency differs from the
// symbol's balance currency, the figure is projected into the
// requested currency through price using the symbol's convention, on
// the given side.
func (h *VirtualBalanceHolder) GetVirtualBalance(req BalanceRequest, symbol *instrument.Metadata, side order.Side, price decimal.Decimal) (decimal.Decimal, error) {
	raw := h.ReportedBalance(req.ExchangeAccountID, req.CurrencyCode).Add(h.Diff(req))
	if symbol == nil || req.CurrencyCode.Equal(symbol.BalanceCurrency) {
		return raw, nil
	}
	if !req.CurrencyCode.Equal(symbol.AmountCurrency) {
		return raw, nil
	}
	cpu, err := CostPerUnit(*symbol, side, price, decimal.NewFromInt(1))
	if err != nil {
		return decimal.Zero, err
	}
	return raw.Div(cpu), nil
}

// VirtualBalanceDiffs returns a copy of the strategy-scoped diff map;
// later changes to the holder do not show in it.
func (h *VirtualBalanceHolder) VirtualBalanceDiffs() map[diffKey]decimal.Decimal {
	out := make(map[diffKey]decimal.Decimal, len(h.diffs))
	for k, v := range h.diffs {
		out[k] = v
	}
	return out
}

// clone returns a deep copy of the holder.
func (h *VirtualBalanceHolder) clone() *VirtualBalanceHolder {
	out := NewVirtualBalanceHolder()
	for k, v := range h.reported {
		out.reported[k] = v
	}
	for k, v := range h.diffs {
		out.diffs[k] = v
	}
	return out
}
