package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLumpSumHolding_ComputesUnits(t *testing.T) {
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	// amount=10000, buy_price=100.00 -> units=100.0000
	h, err := NewLumpSumHolding("120503", "Axis Bluechip Fund", decimal.NewFromInt(10000), decimal.NewFromInt(100), buyDate)

	assert.NoError(t, err)
	assert.Equal(t, "120503", h.SchemeCode)
	assert.True(t, h.Units.Equal(decimal.RequireFromString("100.0000")))
	assert.True(t, h.AmountInvested.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, buyDate, h.BuyDate)
	assert.Nil(t, h.Sip)
	assert.EqualValues(t, 0, h.Version)
}

func TestNewLumpSumHolding_RoundsUnitsToFourPlaces(t *testing.T) {
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	// 10000 / 23.17 = 431.59257... -> 431.5926
	h, err := NewLumpSumHolding("120503", "Axis Bluechip Fund", decimal.NewFromInt(10000), decimal.RequireFromString("23.17"), buyDate)

	assert.NoError(t, err)
	assert.True(t, h.Units.Equal(decimal.RequireFromString("431.5926")))
}

func TestNewLumpSumHolding_RejectsNonPositiveAmount(t *testing.T) {
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := NewLumpSumHolding("120503", "Axis Bluechip Fund", decimal.Zero, decimal.NewFromInt(100), buyDate)

	assert.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)
}

func TestNewLumpSumHolding_RejectsNonPositiveBuyPrice(t *testing.T) {
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := NewLumpSumHolding("120503", "Axis Bluechip Fund", decimal.NewFromInt(10000), decimal.Zero, buyDate)

	assert.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "buy_price", ve.Field)
}

func TestSetAmountInvested_RecomputesUnitsFromBuyPrice(t *testing.T) {
	buyDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	h, err := NewLumpSumHolding("120503", "Axis Bluechip Fund", decimal.NewFromInt(10000), decimal.NewFromInt(100), buyDate)
	assert.NoError(t, err)

	// Units must follow the original buy price, never the current NAV
	h.SetAmountInvested(decimal.NewFromInt(15000))

	assert.True(t, h.AmountInvested.Equal(decimal.NewFromInt(15000)))
	assert.True(t, h.Units.Equal(decimal.RequireFromString("150.0000")))
}

func TestNavSeries_At(t *testing.T) {
	series := NavSeries{
		"07-01-2023": decimal.RequireFromString("22.5"),
	}

	nav, ok := series.At(time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.True(t, nav.Equal(decimal.RequireFromString("22.5")))

	_, ok = series.At(time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestNavSeries_PointsSortedByCalendarDate(t *testing.T) {
	// Lexically "02-01-2023" < "28-12-2022" is false for string sort by day;
	// calendar order must win over date-string order.
	series := NavSeries{
		"02-01-2023": decimal.RequireFromString("11.0"),
		"28-12-2022": decimal.RequireFromString("10.0"),
		"15-06-2023": decimal.RequireFromString("12.0"),
	}

	points := series.Points()

	assert.Len(t, points, 3)
	assert.Equal(t, time.Date(2022, 12, 28, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), points[1].Date)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), points[2].Date)
}
