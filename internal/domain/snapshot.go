package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the aggregate portfolio state on one observed date.
// Snapshots are computed on demand from holdings and NAV series and are
// never persisted.
type PortfolioSnapshot struct {
	Date           time.Time
	Value          decimal.Decimal
	Investment     decimal.Decimal
	ReturnsPercent decimal.Decimal
}
