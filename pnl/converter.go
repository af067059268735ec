package pnl

import (
	"context"

	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
)

// USDConverter quotes a batch of currencies against USD in one round
// trip. Implementations talk to an external price source; the ledger
// never assumes any particular one.
type USDConverter interface {
	ConvertToUSD(ctx context.Context, amounts map[currency.Code]decimal.Decimal) (map[currency.Code]decimal.Decimal, error)
}
