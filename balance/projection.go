package balance

import (
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/shopspring/decimal"
)

// safetyFactor derates every externally-returned available-balance
// figure to avoid rejected orders at the exchange edge. It is never
// applied to the reservation-fit check against stored amounts.
var safetyFactor = decimal.NewFromFloat(0.95)

// ApplySafetyFactor derates a balance figure before it is handed to a
// caller outside the ledger.
func ApplySafetyFactor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(safetyFactor)
}

// CostPerUnit returns the balance-currency amount that corresponds to
// one unit of amount-currency under symbol's convention, side, price
// and leverage: for an amount A, A.Mul(costPerUnit) is the
// balance-currency delta the reservation book debits or the fill
// applicator posts.
//
// For a derivative-linear symbol the direction flips depending on
// whether amount-currency is the pair's base or its quote leg — see
// Metadata's doc comment and DESIGN.md's Open Question (d). A linear
// symbol whose amount currency is the quote leg (as in a reservation
// reported against the base leg's balance) costs 1/(price·leverage)
// per unit instead of price/leverage.
func CostPerUnit(symbol instrument.Metadata, side order.Side, price, leverage decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	if leverage.IsZero() {
		leverage = decimal.NewFromInt(1)
	}
	if leverage.IsNegative() {
		return decimal.Zero, ErrInvalidLeverage
	}

	if !symbol.IsDerivative {
		if side == order.Buy {
			return price, nil
		}
		return decimal.NewFromInt(1), nil
	}

	if symbol.IsInverse {
		return price.Mul(symbol.AmountMultiplier).Div(leverage), nil
	}

	if symbol.AmountIsBase() {
		return price.Div(leverage), nil
	}
	return decimal.NewFromInt(1).Div(price.Mul(leverage)), nil
}

// positionCredit is the amount of a reverse position that a
// reservation on the given side may consume for free, per §4.6's
// "opposite-direction fills free part of the next reservation."
func positionCredit(side order.Side, position decimal.Decimal) decimal.Decimal {
	if side == order.Buy {
		return decimal.Max(position.Neg(), decimal.Zero)
	}
	return decimal.Max(position, decimal.Zero)
}

// FreeAmount computes the un-derated free amount (in amount-currency)
// available on the given side, before the limit clamp.
func FreeAmount(symbol instrument.Metadata, side order.Side, reportedBalance, price, leverage, position decimal.Decimal) (decimal.Decimal, error) {
	cpu, err := CostPerUnit(symbol, side, price, leverage)
	if err != nil {
		return decimal.Zero, err
	}
	return reportedBalance.Div(cpu).Add(positionCredit(side, position)), nil
}

// ClampToLimit bounds a free amount by the residual capacity the
// amount-limit manager permits on the given side, when a limit is
// set. limit and position are both in amount-currency units, so the
// clamp is a direct minimum — no further currency conversion applies.
func ClampToLimit(side order.Side, free, position decimal.Decimal, limit *decimal.Decimal) decimal.Decimal {
	if limit == nil {
		return free
	}
	var cap decimal.Decimal
	if side == order.Buy {
		cap = decimal.Max(limit.Sub(position), decimal.Zero)
	} else {
		cap = decimal.Max(limit.Add(position), decimal.Zero)
	}
	return decimal.Min(free, cap)
}

// ResultingPosition returns the position that would result from
// reserving amount on side against the current position.
func ResultingPosition(side order.Side, position, amount decimal.Decimal) decimal.Decimal {
	if side == order.Buy {
		return position.Add(amount)
	}
	return position.Sub(amount)
}

// CanReserveAmount reports whether reserving amount on side keeps the
// resulting position within limit (when set) plus a tolerance of one
// amount tick, per §4.6's can_reserve edge case.
func CanReserveAmount(symbol instrument.Metadata, side order.Side, amount, position decimal.Decimal, limit *decimal.Decimal) bool {
	if limit == nil {
		return true
	}
	resulting := ResultingPosition(side, position, amount).Abs()
	tolerance := symbol.AmountTick
	return resulting.LessThanOrEqual(limit.Add(tolerance))
}
