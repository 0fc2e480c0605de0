package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// NavPoint is a single (date, nav) observation for a scheme
type NavPoint struct {
	Date time.Time
	Nav  decimal.Decimal
}

// NavSeries is a scheme's NAV history keyed by day-month-year date string.
// It is a partial function of date: NAVs are not published on weekends or
// holidays, so most calendar ranges contain gaps.
type NavSeries map[string]decimal.Decimal

// At returns the NAV observed on the given calendar day, if any
func (s NavSeries) At(date time.Time) (decimal.Decimal, bool) {
	nav, ok := s[FormatNavDate(date)]
	return nav, ok
}

// Points returns the observations sorted by calendar date ascending.
// Keys that do not parse as day-month-year dates are dropped.
func (s NavSeries) Points() []NavPoint {
	points := make([]NavPoint, 0, len(s))
	for key, nav := range s {
		date, err := ParseNavDate(key)
		if err != nil {
			continue
		}
		points = append(points, NavPoint{Date: date, Nav: nav})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// FundDetails is the current snapshot of a scheme as reported by the provider
type FundDetails struct {
	SchemeCode  string
	SchemeName  string
	Nav         decimal.Decimal
	LastUpdated string // provider-reported observation date, day-month-year
}

// SchemeRef pairs a scheme code with its display name
type SchemeRef struct {
	Code string
	Name string
}
