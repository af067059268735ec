// Package validate provides input-validation checks expressed as
// vala.Checker closures, run in order by Validate. cmd/ledgerctl uses
// it for its configuration; the balance package performs its own
// checks and does not use it.
//
// vala's own bundled checkers are float64/string oriented and are not
// decimal-aware, so this package supplies its own vala.Checker
// closures for decimal quantities rather than vala's stock checkers.
package validate

import (
	"errors"

	"github.com/kat-co/vala"
	"github.com/shopspring/decimal"
)

// Sentinel errors returned by Validate for the checkers in this package.
var (
	ErrInvalidPrice  = errors.New("validate: price must be strictly positive")
	ErrInvalidAmount = errors.New("validate: amount must be strictly positive")
	ErrEmptyString   = errors.New("validate: required string is empty")
)

// PositivePrice returns a vala.Checker that fails when price is not
// strictly greater than zero.
func PositivePrice(price decimal.Decimal) vala.Checker {
	return func() (bool, string) {
		return price.IsPositive(), ErrInvalidPrice.Error()
	}
}

// PositiveAmount returns a vala.Checker that fails when amount is not
// strictly greater than zero.
func PositiveAmount(amount decimal.Decimal) vala.Checker {
	return func() (bool, string) {
		return amount.IsPositive(), ErrInvalidAmount.Error()
	}
}

// NonNegativeAmount returns a vala.Checker that fails when amount is
// negative.
func NonNegativeAmount(amount decimal.Decimal) vala.Checker {
	return func() (bool, string) {
		return !amount.IsNegative(), ErrInvalidAmount.Error()
	}
}

// NonEmpty returns a vala.Checker that fails when s is empty.
func NonEmpty(s string) vala.Checker {
	return func() (bool, string) {
		return s != "", ErrEmptyString.Error()
	}
}

// messageToSentinel lets Validate hand back the original sentinel
// error to callers instead of vala's plain aggregated-message error,
// so callers can use errors.Is against ErrInvalidPrice and friends.
var messageToSentinel = map[string]error{
	ErrInvalidPrice.Error():  ErrInvalidPrice,
	ErrInvalidAmount.Error(): ErrInvalidAmount,
	ErrEmptyString.Error():   ErrEmptyString,
}

// Validate runs every checker in order, short-circuiting at the first
// failure and returning its underlying sentinel error, or nil if all
// pass.
func Validate(checks ...vala.Checker) error {
	for _, check := range checks {
		if ok, msg := check(); !ok {
			if sentinel, known := messageToSentinel[msg]; known {
				return sentinel
			}
			return errors.New(msg)
		}
	}
	return nil
}
