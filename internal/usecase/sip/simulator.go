package sip

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/simaogato/fundfolio-backend/internal/usecase/navlookup"
)

// Schedule describes a monthly contribution plan
type Schedule struct {
	Amount     decimal.Decimal
	DayOfMonth int
	StartDate  time.Time
}

// Result is the final simulator state, to be merged back into the holding by
// the caller
type Result struct {
	TotalUnits      decimal.Decimal
	TotalInvestment decimal.Decimal
	Installments    []domain.SipInstallment
}

// Simulate steps a monthly contribution schedule forward against a gappy NAV
// calendar, starting fromMonth months after the schedule start and halting
// once the scheduled date passes today.
// Logic per step:
//  1. Price the scheduled date through navlookup with the default 5-day
//     forward window
//  2. On a match: units = round(amount / nav, 4); append an installment at
//     the MATCHED date and accumulate units and investment
//  3. On a window miss the month is skipped entirely - no installment, no
//     surfaced error - and the schedule simply advances. Silent skip is
//     intentional source behavior.
//
// Accumulators are seeded from the holding's pre-existing units and invested
// amount. The walk is deterministic: identical inputs yield an identical
// result, installment for installment.
func Simulate(sched Schedule, series domain.NavSeries, seedUnits, seedInvestment decimal.Decimal, fromMonth int, today time.Time) Result {
	totalUnits := seedUnits
	totalInvestment := seedInvestment
	var installments []domain.SipInstallment

	today = domain.DateOnly(today)
	for monthN := fromMonth; ; monthN++ {
		scheduled := domain.SipScheduleDate(sched.StartDate, monthN, sched.DayOfMonth)
		if scheduled.After(today) {
			break
		}

		point, err := navlookup.Find(series, scheduled, navlookup.DefaultWindowDays)
		if err != nil {
			// only ErrNoNavInWindow can occur here; the month is skipped
			continue
		}

		units := sched.Amount.Div(point.Nav).Round(4)
		installments = append(installments, domain.SipInstallment{
			Date:   point.Date,
			Amount: sched.Amount,
			Nav:    point.Nav,
			Units:  units,
		})
		totalUnits = totalUnits.Add(units)
		totalInvestment = totalInvestment.Add(sched.Amount)
	}

	return Result{
		TotalUnits:      totalUnits,
		TotalInvestment: totalInvestment,
		Installments:    installments,
	}
}

// resumeMonth returns the month offset of the first scheduled slot strictly
// after the last realized installment, so extending a schedule never
// recreates installments. A trailing skipped month is re-attempted against
// the same calendar gap, which skips it again.
func resumeMonth(sched Schedule, investments []domain.SipInstallment) int {
	if len(investments) == 0 {
		return 0
	}
	last := investments[len(investments)-1].Date
	for monthN := 0; ; monthN++ {
		if domain.SipScheduleDate(sched.StartDate, monthN, sched.DayOfMonth).After(last) {
			return monthN
		}
	}
}
