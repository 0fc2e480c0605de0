package domain

import (
	"context"
	"time"
)

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// GetByCode retrieves a holding by its scheme code
	// Returns ErrHoldingNotFound when no such holding exists
	GetByCode(ctx context.Context, schemeCode string) (*Holding, error)

	// List retrieves all holdings
	List(ctx context.Context) ([]*Holding, error)

	// Upsert inserts a new holding (Version == 0) or updates an existing one.
	// Updates are compare-and-swap on Version; a stale version returns
	// ErrVersionConflict and the row is left untouched. On success the
	// holding's Version is advanced in place.
	Upsert(ctx context.Context, holding *Holding) error

	// Delete removes a holding by its scheme code
	// Returns ErrHoldingNotFound when no such holding exists
	Delete(ctx context.Context, schemeCode string) error
}

// NavProvider defines the interface to the third-party NAV data source.
// Failed, timed-out or unusable calls are reported as *DataSourceError;
// unknown schemes as ErrSchemeNotFound.
type NavProvider interface {
	// CurrentDetails retrieves the latest published snapshot for a scheme
	CurrentDetails(ctx context.Context, schemeCode string) (*FundDetails, error)

	// HistoricalSeries retrieves a scheme's NAV series restricted to
	// [start, end]. The result may be empty but is never silently partial.
	HistoricalSeries(ctx context.Context, schemeCode string, start, end time.Time) (NavSeries, error)

	// ResolveSchemeCode maps an exact scheme name to its code
	// Returns ErrAmbiguousScheme unless exactly one scheme matches
	ResolveSchemeCode(ctx context.Context, schemeName string) (string, error)

	// SchemeCodes lists all schemes known to the provider
	SchemeCodes(ctx context.Context) ([]SchemeRef, error)
}
