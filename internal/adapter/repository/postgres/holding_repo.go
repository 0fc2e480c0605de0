package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// EnsureSchema creates the holdings table if it does not exist yet
func EnsureSchema(ctx context.Context, db *DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS holdings (
			id UUID PRIMARY KEY,
			scheme_code TEXT NOT NULL UNIQUE,
			scheme_name TEXT NOT NULL,
			amount_invested NUMERIC(18,2) NOT NULL,
			buy_date DATE NOT NULL,
			buy_price NUMERIC(18,4) NOT NULL,
			units NUMERIC(18,4) NOT NULL,
			sip_details JSONB,
			version BIGINT NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure holdings schema: %w", err)
	}
	return nil
}

// sipDetailsRecord is the JSONB shape of a holding's SIP schedule.
// Dates are stored as day-month-year strings, decimals as strings.
type sipDetailsRecord struct {
	Amount      string                 `json:"amount"`
	DayOfMonth  int                    `json:"day_of_month"`
	StartDate   string                 `json:"start_date"`
	Investments []sipInstallmentRecord `json:"investments"`
}

type sipInstallmentRecord struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Nav    string `json:"nav"`
	Units  string `json:"units"`
}

// GetByCode retrieves a holding by its scheme code
func (r *holdingRepository) GetByCode(ctx context.Context, schemeCode string) (*domain.Holding, error) {
	query := `
		SELECT id, scheme_code, scheme_name, amount_invested, buy_date, buy_price, units, sip_details, version
		FROM holdings
		WHERE scheme_code = $1
	`

	row := r.db.QueryRowContext(ctx, query, schemeCode)
	holding, err := scanHolding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, fmt.Errorf("failed to get holding by scheme code: %w", err)
	}
	return holding, nil
}

// List retrieves all holdings ordered by scheme name
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT id, scheme_code, scheme_name, amount_invested, buy_date, buy_price, units, sip_details, version
		FROM holdings
		ORDER BY scheme_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holding rows: %w", err)
	}

	return holdings, nil
}

// Upsert inserts a new holding (Version == 0) or updates an existing one with
// a compare-and-swap on the version column. A stale version means a
// concurrent writer won the race; the caller gets ErrVersionConflict and the
// row is left untouched.
func (r *holdingRepository) Upsert(ctx context.Context, holding *domain.Holding) error {
	sipJSON, err := marshalSipDetails(holding.Sip)
	if err != nil {
		return fmt.Errorf("failed to marshal sip details: %w", err)
	}

	if holding.Version == 0 {
		query := `
			INSERT INTO holdings (id, scheme_code, scheme_name, amount_invested, buy_date, buy_price, units, sip_details, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
		`
		if _, err := r.db.ExecContext(ctx, query,
			holding.ID,
			holding.SchemeCode,
			holding.SchemeName,
			holding.AmountInvested.String(),
			holding.BuyDate,
			holding.BuyPrice.String(),
			holding.Units.String(),
			sipJSON,
		); err != nil {
			return fmt.Errorf("failed to insert holding: %w", err)
		}
		holding.Version = 1
		return nil
	}

	query := `
		UPDATE holdings
		SET scheme_name = $1, amount_invested = $2, buy_price = $3, units = $4, sip_details = $5, version = version + 1
		WHERE scheme_code = $6 AND version = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		holding.SchemeName,
		holding.AmountInvested.String(),
		holding.BuyPrice.String(),
		holding.Units.String(),
		sipJSON,
		holding.SchemeCode,
		holding.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	holding.Version++
	return nil
}

// Delete removes a holding by its scheme code
func (r *holdingRepository) Delete(ctx context.Context, schemeCode string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE scheme_code = $1`, schemeCode)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(row scanner) (*domain.Holding, error) {
	var holding domain.Holding
	var idStr string
	var amountStr, buyPriceStr, unitsStr string
	var buyDate time.Time
	var sipJSON sql.NullString

	if err := row.Scan(
		&idStr,
		&holding.SchemeCode,
		&holding.SchemeName,
		&amountStr,
		&buyDate,
		&buyPriceStr,
		&unitsStr,
		&sipJSON,
		&holding.Version,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holding id: %w", err)
	}
	holding.ID = id
	holding.BuyDate = domain.DateOnly(buyDate)

	if holding.AmountInvested, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount_invested: %w", err)
	}
	if holding.BuyPrice, err = decimal.NewFromString(buyPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse buy_price: %w", err)
	}
	if holding.Units, err = decimal.NewFromString(unitsStr); err != nil {
		return nil, fmt.Errorf("failed to parse units: %w", err)
	}

	if sipJSON.Valid {
		sip, err := unmarshalSipDetails(sipJSON.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sip_details: %w", err)
		}
		holding.Sip = sip
	}

	return &holding, nil
}

func marshalSipDetails(sip *domain.SipDetails) (interface{}, error) {
	if sip == nil {
		return nil, nil
	}

	record := sipDetailsRecord{
		Amount:      sip.Amount.String(),
		DayOfMonth:  sip.DayOfMonth,
		StartDate:   domain.FormatNavDate(sip.StartDate),
		Investments: make([]sipInstallmentRecord, 0, len(sip.Investments)),
	}
	for _, inv := range sip.Investments {
		record.Investments = append(record.Investments, sipInstallmentRecord{
			Date:   domain.FormatNavDate(inv.Date),
			Amount: inv.Amount.String(),
			Nav:    inv.Nav.String(),
			Units:  inv.Units.String(),
		})
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalSipDetails(raw string) (*domain.SipDetails, error) {
	var record sipDetailsRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(record.Amount)
	if err != nil {
		return nil, err
	}
	startDate, err := domain.ParseNavDate(record.StartDate)
	if err != nil {
		return nil, err
	}

	sip := &domain.SipDetails{
		Amount:      amount,
		DayOfMonth:  record.DayOfMonth,
		StartDate:   startDate,
		Investments: make([]domain.SipInstallment, 0, len(record.Investments)),
	}
	for _, inv := range record.Investments {
		date, err := domain.ParseNavDate(inv.Date)
		if err != nil {
			return nil, err
		}
		invAmount, err := decimal.NewFromString(inv.Amount)
		if err != nil {
			return nil, err
		}
		nav, err := decimal.NewFromString(inv.Nav)
		if err != nil {
			return nil, err
		}
		units, err := decimal.NewFromString(inv.Units)
		if err != nil {
			return nil, err
		}
		sip.Investments = append(sip.Investments, domain.SipInstallment{
			Date:   date,
			Amount: invAmount,
			Nav:    nav,
			Units:  units,
		})
	}

	return sip, nil
}
