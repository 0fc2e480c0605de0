package navlookup

import (
	"time"

	"github.com/simaogato/fundfolio-backend/internal/domain"
)

// DefaultWindowDays is the forward tolerance window used to bridge weekends
// and market holidays in a NAV calendar.
const DefaultWindowDays = 5

// Find returns the NAV observation at the earliest date d such that
// target <= d <= target+windowDays, or domain.ErrNoNavInWindow if the series
// has no observation in that span.
// Logic:
//  1. Scan strictly forward from the target date, one calendar day at a time
//  2. The first match wins - no "closest" tie-break. The next trading day is
//     deliberately favored over a nearer earlier one; the scan never looks
//     backward.
//  3. windowDays <= 0 falls back to DefaultWindowDays
//
// Safety: the series is never mutated and a normal calendar gap is a typed
// failure, not a panic.
func Find(series domain.NavSeries, target time.Time, windowDays int) (domain.NavPoint, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	day := domain.DateOnly(target)
	for offset := 0; offset <= windowDays; offset++ {
		if nav, ok := series.At(day); ok {
			return domain.NavPoint{Date: day, Nav: nav}, nil
		}
		day = day.AddDate(0, 0, 1)
	}

	return domain.NavPoint{}, domain.ErrNoNavInWindow
}
