// Package exchangefeed decodes exchange push events (balance
// snapshots, fills, order finalisations) and forwards them to the
// ledger without ever blocking the strategy goroutine that issues
// reservations: events are enqueued here and applied by a dedicated
// handler goroutine under the ledger's own lock.
package exchangefeed

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// BalanceSnapshot mirrors one exchange-pushed balance/position update.
type BalanceSnapshot struct {
	Account   account.ExchangeAccountID
	Balances  map[currency.Code]decimal.Decimal
	Positions map[currency.Pair]decimal.Decimal
}

// FillEvent mirrors one exchange-pushed order fill report.
type FillEvent struct {
	Descriptor strategy.Descriptor
	Symbol     instrument.Metadata
	Leverage   decimal.Decimal
	Order      order.Order
}

// FinishEvent mirrors one exchange-pushed order finalisation.
type FinishEvent struct {
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
	ReservationID     *order.ReservationID
	ClientOrderID     order.ClientOrderID
}

// Capability is the minimal ledger surface the ingress depends on. It
// is satisfied by *balance.Manager without that package being
// imported here, so exchangefeed can be tested against a fake and the
// ledger remains ignorant of transport concerns.
type Capability interface {
	UpdateExchangeBalance(acc account.ExchangeAccountID, balances map[currency.Code]decimal.Decimal, positions map[currency.Pair]decimal.Decimal)
	OrderWasFilled(desc strategy.Descriptor, symbol instrument.Metadata, leverage decimal.Decimal, o order.Order) error
	OrderWasFinished(desc strategy.Descriptor, acc account.ExchangeAccountID, pair currency.Pair, reservationID *order.ReservationID, clientOrderID order.ClientOrderID)
}
