package history

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
)

// MonthlyValue is one month-bucketed performance entry for a single holding:
// the first NAV observation of a calendar month and the holding's value at it.
type MonthlyValue struct {
	Date  time.Time
	Nav   decimal.Decimal
	Value decimal.Decimal
}

// HistoryService builds historical portfolio timelines from per-scheme NAV series
type HistoryService struct {
	HoldingRepo domain.HoldingRepository
	NavProvider domain.NavProvider

	now func() time.Time
	log zerolog.Logger
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(holdingRepo domain.HoldingRepository, navProvider domain.NavProvider, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		HoldingRepo: holdingRepo,
		NavProvider: navProvider,
		now:         time.Now,
		log:         log.With().Str("service", "history").Logger(),
	}
}

// PortfolioHistory merges every holding's NAV series over [start, end] into a
// single chronological portfolio-value timeline.
// Logic:
//  1. Fetch each holding's series restricted to the window; a provider failure
//     skips that holding and the batch continues
//  2. Fold the fetched series into snapshots via BuildTimeline
func (s *HistoryService) PortfolioHistory(ctx context.Context, start, end time.Time) ([]domain.PortfolioSnapshot, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seriesByScheme := make(map[string]domain.NavSeries, len(holdings))
	for _, h := range holdings {
		series, err := s.NavProvider.HistoricalSeries(ctx, h.SchemeCode, start, end)
		if err != nil {
			s.log.Warn().Err(err).Str("scheme_code", h.SchemeCode).Msg("Holding excluded from history")
			continue
		}
		seriesByScheme[h.SchemeCode] = series
	}

	return BuildTimeline(holdings, seriesByScheme), nil
}

// HoldingPerformance returns the month-bucketed performance history of one
// holding: the first NAV observation per calendar month from its buy date to
// today, each valued at the holding's current units.
func (s *HistoryService) HoldingPerformance(ctx context.Context, schemeCode string) ([]MonthlyValue, error) {
	h, err := s.HoldingRepo.GetByCode(ctx, schemeCode)
	if err != nil {
		return nil, err
	}

	series, err := s.NavProvider.HistoricalSeries(ctx, h.SchemeCode, h.BuyDate, domain.DateOnly(s.now()))
	if err != nil {
		return nil, err
	}

	return monthlyFirstObservations(h, series), nil
}

// BuildTimeline folds each holding's NAV series into a chronologically sorted
// list of portfolio snapshots.
// Logic:
//  1. For every (date, nav) observation of every holding, accumulate
//     nav * units into a date-keyed running total. A date absent from a
//     scheme's series contributes nothing on that date - no forward-fill.
//  2. Every snapshot's investment is the CURRENT total investment across all
//     holdings. This does not reconstruct investment-at-that-date, so
//     early-period returns are computed against a principal that may include
//     later contributions. Known modeling limitation preserved from the
//     source system; do not silently "fix" it.
//  3. returns_percent = (value - investment) / investment * 100, defined as 0
//     when investment is not positive
//  4. Output is sorted ascending by parsed calendar date, never by the
//     day-month-year date string
func BuildTimeline(holdings []*domain.Holding, seriesByScheme map[string]domain.NavSeries) []domain.PortfolioSnapshot {
	totalInvestment := decimal.Zero
	for _, h := range holdings {
		totalInvestment = totalInvestment.Add(h.AmountInvested)
	}

	valueByDate := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		series, ok := seriesByScheme[h.SchemeCode]
		if !ok {
			continue
		}
		for key, nav := range series {
			valueByDate[key] = valueByDate[key].Add(nav.Mul(h.Units))
		}
	}

	snapshots := make([]domain.PortfolioSnapshot, 0, len(valueByDate))
	for key, value := range valueByDate {
		date, err := domain.ParseNavDate(key)
		if err != nil {
			continue
		}

		value = value.Round(2)
		returnsPercent := decimal.Zero
		if totalInvestment.GreaterThan(decimal.Zero) {
			returnsPercent = value.Sub(totalInvestment).
				Div(totalInvestment).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}

		snapshots = append(snapshots, domain.PortfolioSnapshot{
			Date:           date,
			Value:          value,
			Investment:     totalInvestment,
			ReturnsPercent: returnsPercent,
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Date.Before(snapshots[j].Date)
	})

	return snapshots
}

// monthlyFirstObservations picks the first observation of each calendar month
// from a series sorted by date and values it at the holding's units
func monthlyFirstObservations(h *domain.Holding, series domain.NavSeries) []MonthlyValue {
	points := series.Points()
	out := make([]MonthlyValue, 0, len(points))

	var lastYear int
	var lastMonth time.Month
	for _, p := range points {
		year, month, _ := p.Date.Date()
		if len(out) > 0 && year == lastYear && month == lastMonth {
			continue
		}
		out = append(out, MonthlyValue{
			Date:  p.Date,
			Nav:   p.Nav,
			Value: p.Nav.Mul(h.Units).Round(2),
		})
		lastYear, lastMonth = year, month
	}

	return out
}
