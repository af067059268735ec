package balance

import (
	"testing"

	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// TestCostPerUnitLinearAmountInQuote reproduces scenario S1: a linear
// derivative symbol whose amount currency is the pair's quote leg, not
// its base, so the cost per unit is 1/(price·leverage) rather than
// price/leverage.
func TestCostPerUnitLinearAmountInQuote(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.NewDerivative(pair, false, currency.BTC, currency.ETH, decimal.NewFromInt(1), d("0.0001"), d("0.0001"))

	cpu, err := CostPerUnit(symbol, order.Sell, d("0.2"), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, cpu.Equal(d("5")), "expected cost-per-unit 5, got %s", cpu)

	reported := d("100")
	free, err := FreeAmount(symbol, order.Sell, reported, d("0.2"), decimal.NewFromInt(1), decimal.Zero)
	require.NoError(t, err)

	debit := d("5").Mul(cpu)
	remaining := reported.Sub(debit)
	assert.True(t, remaining.Equal(d("75")), "expected remaining balance 75, got %s", remaining)
	derated := ApplySafetyFactor(remaining)
	assert.True(t, derated.Equal(d("71.25")), "expected 71.25 after safety factor, got %s", derated)

	// free amount at that price with no position should allow reserving
	// far more than 5 units; we only assert it is comfortably above 5.
	assert.True(t, free.GreaterThan(d("5")))
}

// TestCostPerUnitInverse reproduces scenario S2.
func TestCostPerUnitInverse(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.NewDerivative(pair, true, currency.BTC, currency.BTC, d("0.001"), d("0.0001"), d("0.0001"))

	cpu, err := CostPerUnit(symbol, order.Sell, d("0.2"), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, cpu.Equal(d("0.0002")), "expected cost-per-unit 0.0002, got %s", cpu)

	reported := d("100")
	debit := d("5").Mul(cpu)
	remaining := reported.Sub(debit)
	derated := ApplySafetyFactor(remaining)
	assert.True(t, derated.Equal(d("94.99905")), "expected 94.99905, got %s", derated)
}

func TestCostPerUnitSpot(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.New(pair, d("0.0001"), d("0.0001"))

	buyCPU, err := CostPerUnit(symbol, order.Buy, d("10"), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, buyCPU.Equal(d("10")))

	sellCPU, err := CostPerUnit(symbol, order.Sell, d("10"), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, sellCPU.Equal(decimal.NewFromInt(1)))
}

func TestCostPerUnitRejectsNonPositivePrice(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.New(pair, d("0.0001"), d("0.0001"))
	_, err := CostPerUnit(symbol, order.Buy, decimal.Zero, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestClampToLimitExactlyAtLimit(t *testing.T) {
	t.Parallel()
	limit := d("2")
	position := decimal.Zero
	free := d("10")
	clamped := ClampToLimit(order.Buy, free, position, &limit)
	assert.True(t, clamped.Equal(d("2")))
}

func TestCanReserveAmountEdgeOfLimit(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.New(pair, d("0.0001"), d("0.1"))
	limit := d("2")

	assert.True(t, CanReserveAmount(symbol, order.Buy, d("2"), decimal.Zero, &limit))
	assert.False(t, CanReserveAmount(symbol, order.Buy, d("2.2"), decimal.Zero, &limit))
}

func TestCanReserveAmountNoLimit(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.New(pair, d("0.0001"), d("0.1"))
	assert.True(t, CanReserveAmount(symbol, order.Buy, d("1000000"), decimal.Zero, nil))
}

// TestFreeAmountCreditsOppositeDirectionPosition exercises the
// opposite-direction credit from scenario S3: a Buy-side free amount
// gains the short part of the position for free, and a Sell-side free
// amount gains the long part, but never the same-direction part.
func TestFreeAmountCreditsOppositeDirectionPosition(t *testing.T) {
	t.Parallel()
	pair := currency.NewPair(currency.ETH, currency.BTC)
	symbol := instrument.New(pair, d("0.0001"), d("0.0001"))

	baseline, err := FreeAmount(symbol, order.Buy, d("100"), d("10"), decimal.NewFromInt(1), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, baseline.Equal(d("10")))

	short, err := FreeAmount(symbol, order.Buy, d("100"), d("10"), decimal.NewFromInt(1), d("-1"))
	require.NoError(t, err)
	assert.True(t, short.Equal(d("11")), "a short position should free an extra unit for a buy")

	long, err := FreeAmount(symbol, order.Buy, d("100"), d("10"), decimal.NewFromInt(1), d("1"))
	require.NoError(t, err)
	assert.True(t, long.Equal(d("10")), "a long position grants no buy-side credit")

	sellShort, err := FreeAmount(symbol, order.Sell, d("100"), d("10"), decimal.NewFromInt(1), d("-1"))
	require.NoError(t, err)
	assert.True(t, sellShort.Equal(d("100")), "a short position grants no sell-side credit")

	sellLong, err := FreeAmount(symbol, order.Sell, d("100"), d("10"), decimal.NewFromInt(1), d("1"))
	require.NoError(t, err)
	assert.True(t, sellLong.Equal(d("101")), "a long position should free an extra unit for a sell")
}
