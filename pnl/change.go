// Package pnl accumulates fill-derived profit-and-loss balance changes
// and aggregates them either raw (already USD-denominated) or
// converted to USD via an external price oracle.
package pnl

import (
	"time"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// Change is one append-only profit-and-loss record, emitted whenever
// the ledger applies a fill.
type Change struct {
	ID                uint64
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	CurrencyCode      currency.Code
	SignedAmount      decimal.Decimal
	USDPrice          decimal.Decimal
	USDEquivalent     decimal.Decimal
	Timestamp         time.Time
}
