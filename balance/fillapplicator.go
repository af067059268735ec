package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// FillApplicator turns an order fill into position and virtual-balance
// deltas and a P&L record, per symbol's pricing convention. Its only
// state is the set of trade ids already applied, used to deduplicate
// so a re-delivered fill is a no-op; all ledger mutation happens
// through the holders passed in, under the façade's lock.
type FillApplicator struct {
	appliedTrades map[order.TradeID]bool
}

// NewFillApplicator returns an applicator with an empty dedup set.
func NewFillApplicator() *FillApplicator {
	return &FillApplicator{appliedTrades: make(map[order.TradeID]bool)}
}

// AppliedFillEffect summarises the position and commission-bearing
// currency affected by one Apply call, so the façade can attach a P&L
// record after the fact.
type AppliedFillEffect struct {
	SignedPositionDelta decimal.Decimal
	CommissionCurrency  currency.Code
	CommissionAmount    decimal.Decimal
	Applied             bool
}

// Apply posts fill's balance and position effects for header's symbol
// into vbh and tracker, under leverage (the reservation's leverage
// snapshot, or 1 for unleveraged fills). Returns Applied=false without
// error when fill.TradeID has already been applied.
func (a *FillApplicator) Apply(vbh *VirtualBalanceHolder, tracker *PositionTracker, desc strategy.Descriptor, acc account.ExchangeAccountID, symbol instrument.Metadata, side order.Side, leverage decimal.Decimal, fill order.Fill) (AppliedFillEffect, error) {
	if a.appliedTrades[fill.TradeID] {
		return AppliedFillEffect{}, nil
	}
	if leverage.IsZero() {
		leverage = decimal.NewFromInt(1)
	}

	positionDelta := fill.Amount
	if side == order.Sell {
		positionDelta = positionDelta.Neg()
	}

	amountReq := NewBalanceRequest(desc, acc, symbol.Pair, symbol.AmountCurrency)
	balanceReq := NewBalanceRequest(desc, acc, symbol.Pair, symbol.BalanceCurrency)

	switch symbol.Convention() {
	case instrument.Spot:
		if side == order.Buy {
			vbh.AddDiff(balanceReq, fill.Amount.Mul(fill.Price).Neg())
			vbh.AddDiff(amountReq, fill.Amount)
		} else {
			vbh.AddDiff(balanceReq, fill.Amount.Mul(fill.Price))
			vbh.AddDiff(amountReq, fill.Amount.Neg())
		}
	default:
		cpu, err := CostPerUnit(symbol, side, fill.Price, leverage)
		if err != nil {
			return AppliedFillEffect{}, err
		}
		delta := fill.Amount.Mul(cpu)
		if side == order.Buy {
			delta = delta.Neg()
		}
		vbh.AddDiff(balanceReq, delta)
	}

	if !fill.CommissionAmount.IsZero() {
		commissionReq := NewBalanceRequest(desc, acc, symbol.Pair, fill.CommissionCurrency)
		vbh.AddDiff(commissionReq, fill.CommissionAmount.Neg())
	}

	tracker.ApplyFillDelta(acc, symbol.Pair, positionDelta)
	a.appliedTrades[fill.TradeID] = true

	return AppliedFillEffect{
		SignedPositionDelta: positionDelta,
		CommissionCurrency:  fill.CommissionCurrency,
		CommissionAmount:    fill.CommissionAmount,
		Applied:             true,
	}, nil
}

// clone returns a deep copy of the dedup set.
func (a *FillApplicator) clone() *FillApplicator {
	out := NewFillApplicator()
	for k, v := range a.appliedTrades {
		out.appliedTrades[k] = v
	}
	return out
}

