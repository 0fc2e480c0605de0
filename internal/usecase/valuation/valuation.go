package valuation

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
)

// Result is the outcome of pricing a single holding.
// An unpriced result carries the reason so callers can distinguish "worth
// nothing" from "couldn't be priced"; the valuation fields of an unpriced
// result are meaningless and must not enter aggregate totals.
type Result struct {
	Holding        *domain.Holding
	CurrentNav     decimal.Decimal
	CurrentValue   decimal.Decimal
	ReturnsPercent decimal.Decimal
	Priced         bool
	UnpricedReason string
}

// Price values a holding at the given current NAV.
// Logic:
//  1. current_value = current_nav * units, rounded to 2 decimal places
//  2. returns_percent = (current_value - amount_invested) / amount_invested * 100,
//     rounded to 2 decimal places
//  3. returns_percent is defined as 0 when amount_invested <= 0 - the division
//     is guarded away, never caught after the fact
func Price(holding *domain.Holding, currentNav decimal.Decimal) Result {
	currentValue := currentNav.Mul(holding.Units).Round(2)

	returnsPercent := decimal.Zero
	if holding.AmountInvested.GreaterThan(decimal.Zero) {
		returnsPercent = currentValue.Sub(holding.AmountInvested).
			Div(holding.AmountInvested).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return Result{
		Holding:        holding,
		CurrentNav:     currentNav,
		CurrentValue:   currentValue,
		ReturnsPercent: returnsPercent,
		Priced:         true,
	}
}

// Unpriced marks a holding whose current NAV could not be obtained
func Unpriced(holding *domain.Holding, reason string) Result {
	return Result{
		Holding:        holding,
		Priced:         false,
		UnpricedReason: reason,
	}
}
