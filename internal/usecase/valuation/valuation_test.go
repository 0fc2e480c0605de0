package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makeHolding(t *testing.T, amount, buyPrice string) *domain.Holding {
	t.Helper()
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	h, err := domain.NewLumpSumHolding("120503", "Axis Bluechip Fund",
		decimal.RequireFromString(amount), decimal.RequireFromString(buyPrice), buyDate)
	assert.NoError(t, err)
	return h
}

func TestPrice_GainScenario(t *testing.T) {
	// amount_invested=10000, units=100, current_nav=120
	// -> current_value=12000.00, returns_percent=20.00
	h := makeHolding(t, "10000", "100")

	result := Price(h, decimal.NewFromInt(120))

	assert.True(t, result.Priced)
	assert.True(t, result.CurrentValue.Equal(decimal.RequireFromString("12000.00")))
	assert.True(t, result.ReturnsPercent.Equal(decimal.RequireFromString("20.00")))
}

func TestPrice_LossScenario(t *testing.T) {
	h := makeHolding(t, "10000", "100")

	result := Price(h, decimal.NewFromInt(80))

	assert.True(t, result.Priced)
	assert.True(t, result.CurrentValue.Equal(decimal.RequireFromString("8000.00")))
	assert.True(t, result.ReturnsPercent.Equal(decimal.RequireFromString("-20.00")))
}

func TestPrice_ReturnsRoundedToTwoPlaces(t *testing.T) {
	// 10000 invested, nav 103.333 on 100 units -> value 10333.30, 3.33%% after rounding
	h := makeHolding(t, "10000", "100")

	result := Price(h, decimal.RequireFromString("103.333"))

	assert.True(t, result.CurrentValue.Equal(decimal.RequireFromString("10333.30")))
	assert.True(t, result.ReturnsPercent.Equal(decimal.RequireFromString("3.33")))
}

func TestPrice_ZeroInvestmentGuard(t *testing.T) {
	// amount_invested=0 -> returns_percent=0, no division error
	h := &domain.Holding{
		SchemeCode:     "120503",
		AmountInvested: decimal.Zero,
		Units:          decimal.RequireFromString("100.0000"),
	}

	result := Price(h, decimal.NewFromInt(120))

	assert.True(t, result.Priced)
	assert.True(t, result.CurrentValue.Equal(decimal.RequireFromString("12000.00")))
	assert.True(t, result.ReturnsPercent.Equal(decimal.Zero))
}

func TestUnpriced_CarriesReason(t *testing.T) {
	h := makeHolding(t, "10000", "100")

	result := Unpriced(h, "current NAV unavailable")

	assert.False(t, result.Priced)
	assert.Equal(t, "current NAV unavailable", result.UnpricedReason)
	assert.Equal(t, h, result.Holding)
	assert.True(t, result.CurrentValue.Equal(decimal.Zero))
}
