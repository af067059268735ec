package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// BalanceRequest addresses one (strategy, exchange account, currency
// pair, currency code) cell of the ledger.
type BalanceRequest struct {
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
	CurrencyCode      currency.Code
}

// NewBalanceRequest builds a BalanceRequest.
func NewBalanceRequest(descriptor strategy.Descriptor, exchangeAccountID account.ExchangeAccountID, pair currency.Pair, code currency.Code) BalanceRequest {
	return BalanceRequest{
		Descriptor:        descriptor,
		ExchangeAccountID: exchangeAccountID,
		Pair:              pair,
		CurrencyCode:      code,
	}
}

// ReserveParameters describes a prospective reservation: everything
// TryReserve and CanReserve need to project its effect.
type ReserveParameters struct {
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Symbol            instrument.Metadata
	Side              order.Side
	Price             decimal.Decimal
	Amount            decimal.Decimal
	// Leverage of zero is treated as 1 (no leverage / full margin).
	Leverage decimal.Decimal
}

// NewReserveParameters builds ReserveParameters with leverage defaulted
// to 1 when zero.
func NewReserveParameters(descriptor strategy.Descriptor, exchangeAccountID account.ExchangeAccountID, symbol instrument.Metadata, side order.Side, price, amount, leverage decimal.Decimal) ReserveParameters {
	if leverage.IsZero() {
		leverage = decimal.NewFromInt(1)
	}
	return ReserveParameters{
		Descriptor:        descriptor,
		ExchangeAccountID: exchangeAccountID,
		Symbol:            symbol,
		Side:              side,
		Price:             price,
		Amount:            amount,
		Leverage:          leverage,
	}
}
