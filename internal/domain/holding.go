package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding represents one fund position in the domain layer.
// It is created by a lump-sum purchase, mutated by invested-amount edits or
// SIP application, and persisted through HoldingRepository.
//
// Invariant: units == round(amount_invested/buy_price, 4) holds only at
// lump-sum creation. Once SIP installments exist, units is the lump-sum units
// plus the sum of per-installment units and amount_invested is the sum of all
// contributions; the ratio to buy_price no longer applies.
type Holding struct {
	ID             uuid.UUID
	SchemeCode     string
	SchemeName     string
	AmountInvested decimal.Decimal
	BuyDate        time.Time       // date of first purchase, day-month-year internally
	BuyPrice       decimal.Decimal // NAV at first purchase; immutable after creation
	Units          decimal.Decimal // derived, never set directly by a client
	Sip            *SipDetails
	Version        int64 // optimistic-concurrency stamp; persisted updates are CAS on it
}

// SipDetails holds a holding's contribution schedule and realized installments
type SipDetails struct {
	Amount      decimal.Decimal
	DayOfMonth  int
	StartDate   time.Time
	Investments []SipInstallment
}

// SipInstallment is one realized contribution; immutable once created
type SipInstallment struct {
	Date   time.Time // matched NAV date, not the scheduled date
	Amount decimal.Decimal
	Nav    decimal.Decimal
	Units  decimal.Decimal
}

// NewLumpSumHolding creates a holding for a first lump-sum purchase.
// Logic:
//  1. Validate amount and buy price are positive
//  2. units = round(amount / buy_price, 4) - rounded at computation, not display
func NewLumpSumHolding(schemeCode, schemeName string, amount, buyPrice decimal.Decimal, buyDate time.Time) (*Holding, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if buyPrice.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "buy_price", Reason: "must be positive"}
	}

	return &Holding{
		ID:             uuid.New(),
		SchemeCode:     schemeCode,
		SchemeName:     schemeName,
		AmountInvested: amount,
		BuyDate:        DateOnly(buyDate),
		BuyPrice:       buyPrice,
		Units:          amount.Div(buyPrice).Round(4),
	}, nil
}

// SetAmountInvested replaces the invested principal and recomputes units from
// the original buy price, never the current NAV
func (h *Holding) SetAmountInvested(amount decimal.Decimal) {
	h.AmountInvested = amount
	if h.BuyPrice.GreaterThan(decimal.Zero) {
		h.Units = amount.Div(h.BuyPrice).Round(4)
	}
}
