package instrument

import (
	"testing"

	"github.com/Fortunato28/mmb/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ethBTC() currency.Pair {
	return currency.NewPair(currency.ETH, currency.BTC)
}

func TestConventionForSpot(t *testing.T) {
	t.Parallel()
	m := New(ethBTC(), decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.001))
	if m.Convention() != Spot {
		t.Errorf("got %v, want Spot", m.Convention())
	}
	if !m.AmountIsBase() {
		t.Error("expected spot amount currency to be base")
	}
}

func TestConventionForLinearAndInverse(t *testing.T) {
	t.Parallel()
	linear := NewDerivative(ethBTC(), false, currency.BTC, currency.ETH,
		decimal.NewFromInt(1), decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.001))
	if linear.Convention() != DerivativeLinear {
		t.Errorf("got %v, want DerivativeLinear", linear.Convention())
	}
	if linear.AmountIsBase() {
		t.Error("expected this symbol's amount currency to be the quote leg, not base")
	}

	inverse := NewDerivative(ethBTC(), true, currency.BTC, currency.BTC,
		decimal.NewFromFloat(0.001), decimal.NewFromFloat(0.1), decimal.NewFromFloat(1))
	if inverse.Convention() != DerivativeInverse {
		t.Errorf("got %v, want DerivativeInverse", inverse.Convention())
	}
}

func TestValidateRejectsBadMetadata(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, Metadata{}.Validate(), ErrInvalidMetadata)

	valid := New(ethBTC(), decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.001))
	assert.NoError(t, valid.Validate())

	zeroTick := valid
	zeroTick.AmountTick = decimal.Zero
	assert.ErrorIs(t, zeroTick.Validate(), ErrInvalidMetadata)

	zeroMultiplier := valid
	zeroMultiplier.AmountMultiplier = decimal.Zero
	assert.ErrorIs(t, zeroMultiplier.Validate(), ErrInvalidMetadata)
}

func TestRoundToRemoveAmountPrecisionError(t *testing.T) {
	t.Parallel()
	m := New(ethBTC(), decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.001))

	got := m.RoundToRemoveAmountPrecisionError(decimal.NewFromFloat(1.9999996))
	want := decimal.NewFromFloat(1.999)
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}

	gotNeg := m.RoundToRemoveAmountPrecisionError(decimal.NewFromFloat(-1.9999996))
	wantNeg := decimal.NewFromFloat(-1.999)
	if !gotNeg.Equal(wantNeg) {
		t.Errorf("got %s, want %s (truncation toward zero)", gotNeg, wantNeg)
	}
}

func TestStringToConvention(t *testing.T) {
	t.Parallel()
	cases := map[string]Convention{
		"spot":    Spot,
		"LINEAR":  DerivativeLinear,
		"Inverse": DerivativeInverse,
		"":        UnsetConvention,
	}
	for input, want := range cases {
		got, err := StringToConvention(input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := StringToConvention("bogus")
	assert.ErrorIs(t, err, ErrInvalidConvention)
}
