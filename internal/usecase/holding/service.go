package holding

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/simaogato/fundfolio-backend/internal/usecase/navlookup"
)

// CreateHoldingInput represents the input for a lump-sum purchase
type CreateHoldingInput struct {
	SchemeName string
	Amount     decimal.Decimal
	BuyDate    time.Time
}

// HoldingService handles holding lifecycle operations
type HoldingService struct {
	HoldingRepo domain.HoldingRepository
	NavProvider domain.NavProvider

	log zerolog.Logger
}

// NewHoldingService creates a new HoldingService instance
func NewHoldingService(holdingRepo domain.HoldingRepository, navProvider domain.NavProvider, log zerolog.Logger) *HoldingService {
	return &HoldingService{
		HoldingRepo: holdingRepo,
		NavProvider: navProvider,
		log:         log.With().Str("service", "holding").Logger(),
	}
}

// Create records a first lump-sum purchase.
// Logic:
//  1. Resolve the scheme code from the exact scheme name
//  2. Reject a duplicate position for the same scheme
//  3. Price the buy date against the historical series through navlookup
//     (5-day forward window bridges a buy date on a weekend or holiday)
//  4. units = round(amount / buy_price, 4); persist
//
// The buy date is kept as requested; buy_price is the NAV at the matched date.
func (s *HoldingService) Create(ctx context.Context, input CreateHoldingInput) (*domain.Holding, error) {
	if input.SchemeName == "" {
		return nil, &domain.ValidationError{Field: "scheme_name", Reason: "required"}
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if input.BuyDate.IsZero() {
		return nil, &domain.ValidationError{Field: "buy_date", Reason: "required"}
	}

	schemeCode, err := s.NavProvider.ResolveSchemeCode(ctx, input.SchemeName)
	if err != nil {
		return nil, err
	}

	if _, err := s.HoldingRepo.GetByCode(ctx, schemeCode); err == nil {
		return nil, &domain.ValidationError{Field: "scheme_name", Reason: "holding already exists for this scheme"}
	} else if !errors.Is(err, domain.ErrHoldingNotFound) {
		return nil, err
	}

	buyDate := domain.DateOnly(input.BuyDate)
	series, err := s.NavProvider.HistoricalSeries(ctx, schemeCode,
		buyDate, buyDate.AddDate(0, 0, navlookup.DefaultWindowDays))
	if err != nil {
		return nil, err
	}

	point, err := navlookup.Find(series, buyDate, navlookup.DefaultWindowDays)
	if err != nil {
		return nil, &domain.ValidationError{Field: "buy_date", Reason: "no NAV observation within 5 days of buy date"}
	}

	h, err := domain.NewLumpSumHolding(schemeCode, input.SchemeName, input.Amount, point.Nav, buyDate)
	if err != nil {
		return nil, err
	}

	if err := s.HoldingRepo.Upsert(ctx, h); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("scheme_code", h.SchemeCode).
		Str("units", h.Units.String()).
		Str("buy_price", h.BuyPrice.String()).
		Msg("Holding created")

	return h, nil
}

// UpdateAmount edits a holding's invested principal and recomputes units from
// the ORIGINAL buy price, never the current NAV
func (s *HoldingService) UpdateAmount(ctx context.Context, schemeCode string, amount decimal.Decimal) (*domain.Holding, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	h, err := s.HoldingRepo.GetByCode(ctx, schemeCode)
	if err != nil {
		return nil, err
	}

	h.SetAmountInvested(amount)

	if err := s.HoldingRepo.Upsert(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

// Get retrieves a single holding by scheme code
func (s *HoldingService) Get(ctx context.Context, schemeCode string) (*domain.Holding, error) {
	return s.HoldingRepo.GetByCode(ctx, schemeCode)
}

// Delete removes a holding by scheme code
func (s *HoldingService) Delete(ctx context.Context, schemeCode string) error {
	return s.HoldingRepo.Delete(ctx, schemeCode)
}
