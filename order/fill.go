package order

import (
	"time"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
)

// Role is the exchange-reported maker/taker role of a fill, which
// typically determines its commission rate.
type Role int

// The two roles an exchange reports a fill under.
const (
	UnsetRole Role = iota
	Maker
	Taker
)

func (r Role) String() string {
	switch r {
	case Maker:
		return "maker"
	case Taker:
		return "taker"
	default:
		return "unset"
	}
}

// Fill is one exchange-reported execution against an order.
type Fill struct {
	TradeID            TradeID
	Time               time.Time
	Price              decimal.Decimal
	Amount             decimal.Decimal
	Cost               decimal.Decimal
	Role               Role
	CommissionCurrency currency.Code
	CommissionAmount   decimal.Decimal
	IsFunding          bool
}

// Header carries the identifying information of an order needed by the
// ledger: which reservation it was placed against, its side, and the
// symbol it trades.
type Header struct {
	ClientOrderID     ClientOrderID
	ExchangeAccountID account.ExchangeAccountID
	Pair              currency.Pair
	Side              Side
	Amount            decimal.Decimal
	ReservationID     *ReservationID
}

// Order bundles a Header with the fills reported against it so far.
type Order struct {
	Header Header
	Price  decimal.Decimal
	Fills  []Fill
}
