package portfolio

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/simaogato/fundfolio-backend/internal/usecase/valuation"
)

// Summary aggregates the current state of every holding.
// Totals are computed over priced holdings only: an unpriced holding is still
// listed but contributes nothing to the totals.
type Summary struct {
	Holdings            []valuation.Result
	TotalInvestment     decimal.Decimal
	TotalValue          decimal.Decimal
	TotalReturnsPercent decimal.Decimal
}

// PortfolioService produces the current portfolio snapshot
type PortfolioService struct {
	HoldingRepo domain.HoldingRepository
	NavProvider domain.NavProvider

	log zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(holdingRepo domain.HoldingRepository, navProvider domain.NavProvider, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		HoldingRepo: holdingRepo,
		NavProvider: navProvider,
		log:         log.With().Str("service", "portfolio").Logger(),
	}
}

// Summarize values every holding at its current NAV and aggregates totals.
// Logic:
//  1. Price each holding independently via the NAV provider
//  2. A failed lookup marks that holding unpriced and the batch continues -
//     one bad lookup must not fail the entire portfolio view
//  3. total_investment and total_value sum over priced holdings only
//  4. total_returns_percent = (value - investment) / investment * 100,
//     defined as 0 when the priced investment total is not positive
func (s *PortfolioService) Summarize(ctx context.Context) (*Summary, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]valuation.Result, 0, len(holdings))
	totalInvestment := decimal.Zero
	totalValue := decimal.Zero

	for _, h := range holdings {
		details, err := s.NavProvider.CurrentDetails(ctx, h.SchemeCode)
		if err != nil {
			s.log.Warn().Err(err).Str("scheme_code", h.SchemeCode).Msg("Holding left unpriced")
			results = append(results, valuation.Unpriced(h, "current NAV unavailable"))
			continue
		}

		result := valuation.Price(h, details.Nav)
		results = append(results, result)
		totalInvestment = totalInvestment.Add(h.AmountInvested)
		totalValue = totalValue.Add(result.CurrentValue)
	}

	totalReturnsPercent := decimal.Zero
	if totalInvestment.GreaterThan(decimal.Zero) {
		totalReturnsPercent = totalValue.Sub(totalInvestment).
			Div(totalInvestment).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &Summary{
		Holdings:            results,
		TotalInvestment:     totalInvestment,
		TotalValue:          totalValue,
		TotalReturnsPercent: totalReturnsPercent,
	}, nil
}
