// Package instrument describes the trading symbols the ledger
// projects balances for: their currency pair, contract convention
// (spot, linear derivative, inverse derivative), and tick
// quantisation.
package instrument

import (
	"errors"

	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
)

// ErrInvalidMetadata is returned by Validate when the metadata is
// internally inconsistent.
var ErrInvalidMetadata = errors.New("instrument: invalid metadata")

// Metadata describes one symbol's trading conventions. amount_currency
// and balance_currency are independent fields — a linear-derivative
// symbol is free to assign amount_currency to either leg of the pair;
// the Balance Projection Engine determines the price's multiply-vs-divide
// direction by comparing amount_currency against Pair.Base at call
// time rather than assuming linear implies base (see DESIGN.md, Open
// Question (d)).
type Metadata struct {
	Pair             currency.Pair
	IsDerivative     bool
	IsInverse        bool
	AmountCurrency   currency.Code
	BalanceCurrency  currency.Code
	AmountMultiplier decimal.Decimal
	PriceTick        decimal.Decimal
	AmountTick       decimal.Decimal
}

// New builds symbol Metadata for a spot instrument, where amount is
// always denominated in the base currency and balance in the quote.
func New(pair currency.Pair, priceTick, amountTick decimal.Decimal) Metadata {
	return Metadata{
		Pair:             pair,
		AmountCurrency:   pair.Base,
		BalanceCurrency:  pair.Quote,
		AmountMultiplier: decimal.NewFromInt(1),
		PriceTick:        priceTick,
		AmountTick:       amountTick,
	}
}

// NewDerivative builds symbol Metadata for a derivative instrument.
func NewDerivative(pair currency.Pair, isInverse bool, amountCurrency, balanceCurrency currency.Code, amountMultiplier, priceTick, amountTick decimal.Decimal) Metadata {
	return Metadata{
		Pair:             pair,
		IsDerivative:     true,
		IsInverse:        isInverse,
		AmountCurrency:   amountCurrency,
		BalanceCurrency:  balanceCurrency,
		AmountMultiplier: amountMultiplier,
		PriceTick:        priceTick,
		AmountTick:       amountTick,
	}
}

// Convention reports which of the three pricing conventions this
// symbol trades under.
func (m Metadata) Convention() Convention {
	switch {
	case !m.IsDerivative:
		return Spot
	case m.IsInverse:
		return DerivativeInverse
	default:
		return DerivativeLinear
	}
}

// Validate checks internal consistency: a non-empty pair, a positive
// amount multiplier, and positive ticks.
func (m Metadata) Validate() error {
	if m.Pair.IsEmpty() {
		return ErrInvalidMetadata
	}
	if m.AmountCurrency.IsEmpty() || m.BalanceCurrency.IsEmpty() {
		return ErrInvalidMetadata
	}
	if !m.AmountMultiplier.IsPositive() {
		return ErrInvalidMetadata
	}
	if !m.PriceTick.IsPositive() || !m.AmountTick.IsPositive() {
		return ErrInvalidMetadata
	}
	return nil
}

// AmountIsBase reports whether this symbol's amount currency is the
// pair's base currency (the common case for spot and most linear
// derivatives, but not guaranteed — see the Metadata doc comment).
func (m Metadata) AmountIsBase() bool {
	return m.AmountCurrency.Equal(m.Pair.Base)
}

// RoundToRemoveAmountPrecisionError rounds amount to a multiple of
// AmountTick, truncating toward zero. This matches the
// source's "tick-rounding function rounds toward zero" decimal
// semantics (§4.1).
func (m Metadata) RoundToRemoveAmountPrecisionError(amount decimal.Decimal) decimal.Decimal {
	if m.AmountTick.IsZero() {
		return amount
	}
	quotient := amount.Div(m.AmountTick)
	return quotient.Truncate(0).Mul(m.AmountTick)
}
