package balance

import (
	"testing"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/stretchr/testify/assert"
)

func TestLimitManagerGetLimitUnset(t *testing.T) {
	t.Parallel()
	m := NewLimitManager()
	desc := strategy.New("maker", "cfg-1")
	acc := account.New("binance", 1)
	pair := currency.NewPair(currency.ETH, currency.BTC)

	assert.Nil(t, m.GetLimit(desc, acc, pair))
}

func TestLimitManagerSetAndGetLimit(t *testing.T) {
	t.Parallel()
	m := NewLimitManager()
	desc := strategy.New("maker", "cfg-1")
	acc := account.New("binance", 1)
	pair := currency.NewPair(currency.ETH, currency.BTC)

	m.SetTargetAmountLimit(desc, acc, pair, d("2"))
	limit := m.GetLimit(desc, acc, pair)
	if assert.NotNil(t, limit) {
		assert.True(t, limit.Equal(d("2")))
	}
}
