package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the domain ports.
// ErrNoNavInWindow is a normal, expected condition (a weekend/holiday gap),
// not a system fault; callers recover from it locally.
var (
	ErrHoldingNotFound = errors.New("holding not found")
	ErrSchemeNotFound  = errors.New("scheme not found")
	ErrAmbiguousScheme = errors.New("scheme name does not resolve to exactly one scheme")
	ErrNoNavInWindow   = errors.New("no NAV observation within window")
	ErrVersionConflict = errors.New("holding was modified concurrently")
)

// ValidationError reports a malformed or missing request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataSourceError wraps a failed, timed-out or unusable NAV-provider call
type DataSourceError struct {
	Op  string // provider operation that failed, e.g. "historical series"
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("nav data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
