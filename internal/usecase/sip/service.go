package sip

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/simaogato/fundfolio-backend/internal/usecase/navlookup"
)

// ApplySipInput represents the input for applying or extending a SIP schedule
type ApplySipInput struct {
	Amount     decimal.Decimal
	DayOfMonth int
	StartDate  time.Time
}

// SipService runs SIP simulations against holdings and persists the result
type SipService struct {
	HoldingRepo domain.HoldingRepository
	NavProvider domain.NavProvider

	now func() time.Time
	log zerolog.Logger
}

// NewSipService creates a new SipService instance
func NewSipService(holdingRepo domain.HoldingRepository, navProvider domain.NavProvider, log zerolog.Logger) *SipService {
	return &SipService{
		HoldingRepo: holdingRepo,
		NavProvider: navProvider,
		now:         time.Now,
		log:         log.With().Str("service", "sip").Logger(),
	}
}

// Apply runs the contribution schedule for a holding and persists the merged
// result.
// Logic:
//  1. Validate the schedule (positive amount, day of month in 0..31 where
//     0 means "anchor to the start date's day")
//  2. A holding with an existing schedule keeps its original start date and
//     anchor day; the simulation resumes from the month after the last
//     realized installment, so earlier installments are never recreated.
//     A fresh schedule starts at the requested start date.
//  3. Fetch the NAV series spanning the schedule start through today plus the
//     lookup window, simulate, and merge the result into the holding
//  4. Persist via compare-and-swap; a concurrent update surfaces as
//     ErrVersionConflict rather than silently losing either write
func (s *SipService) Apply(ctx context.Context, schemeCode string, input ApplySipInput) (*domain.Holding, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	// day 0 anchors the schedule to the start date's day of month
	if input.DayOfMonth < 0 || input.DayOfMonth > 31 {
		return nil, &domain.ValidationError{Field: "day_of_month", Reason: "must be between 0 and 31"}
	}

	h, err := s.HoldingRepo.GetByCode(ctx, schemeCode)
	if err != nil {
		return nil, err
	}

	sched := Schedule{
		Amount:     input.Amount,
		DayOfMonth: input.DayOfMonth,
		StartDate:  domain.DateOnly(input.StartDate),
	}
	fromMonth := 0
	if h.Sip != nil {
		// extending: the original anchor is authoritative, the amount may change
		sched.StartDate = h.Sip.StartDate
		sched.DayOfMonth = h.Sip.DayOfMonth
		fromMonth = resumeMonth(sched, h.Sip.Investments)
	} else if sched.StartDate.IsZero() {
		return nil, &domain.ValidationError{Field: "start_date", Reason: "required"}
	}

	today := domain.DateOnly(s.now())
	series, err := s.NavProvider.HistoricalSeries(ctx, h.SchemeCode,
		sched.StartDate, today.AddDate(0, 0, navlookup.DefaultWindowDays))
	if err != nil {
		return nil, err
	}

	result := Simulate(sched, series, h.Units, h.AmountInvested, fromMonth, today)

	h.Units = result.TotalUnits
	h.AmountInvested = result.TotalInvestment
	if h.Sip == nil {
		h.Sip = &domain.SipDetails{}
	}
	h.Sip.Amount = sched.Amount
	h.Sip.DayOfMonth = sched.DayOfMonth
	h.Sip.StartDate = sched.StartDate
	h.Sip.Investments = append(h.Sip.Investments, result.Installments...)

	if err := s.HoldingRepo.Upsert(ctx, h); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("scheme_code", h.SchemeCode).
		Int("installments", len(result.Installments)).
		Str("total_units", h.Units.String()).
		Msg("SIP schedule applied")

	return h, nil
}
