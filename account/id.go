// Package account identifies exchange accounts the ledger tracks
// balances for.
package account

import "strconv"

// ExchangeAccountID identifies one account on one exchange by name and
// a numeric index (an exchange may be connected with more than one set
// of credentials). There is no total order between ids; equality and
// use as a map key are the only required operations.
type ExchangeAccountID struct {
	Exchange string
	Index    int64
}

// New builds an ExchangeAccountID.
func New(exchange string, index int64) ExchangeAccountID {
	return ExchangeAccountID{Exchange: exchange, Index: index}
}

// String renders the id as "exchange:index".
func (id ExchangeAccountID) String() string {
	return id.Exchange + ":" + strconv.FormatInt(id.Index, 10)
}
