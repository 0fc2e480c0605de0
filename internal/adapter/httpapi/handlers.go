// Package httpapi provides the HTTP adapter over the use-case services.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fundfolio-backend/internal/domain"
	"github.com/simaogato/fundfolio-backend/internal/usecase/history"
	"github.com/simaogato/fundfolio-backend/internal/usecase/holding"
	"github.com/simaogato/fundfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/fundfolio-backend/internal/usecase/sip"
)

// defaultHistoryDays is the trailing window served when the history range is omitted
const defaultHistoryDays = 365

// Handler handles fund and portfolio HTTP requests
type Handler struct {
	holdingService   *holding.HoldingService
	portfolioService *portfolio.PortfolioService
	historyService   *history.HistoryService
	sipService       *sip.SipService
	navProvider      domain.NavProvider
	log              zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	holdingService *holding.HoldingService,
	portfolioService *portfolio.PortfolioService,
	historyService *history.HistoryService,
	sipService *sip.SipService,
	navProvider domain.NavProvider,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		holdingService:   holdingService,
		portfolioService: portfolioService,
		historyService:   historyService,
		sipService:       sipService,
		navProvider:      navProvider,
		log:              log.With().Str("handler", "httpapi").Logger(),
	}
}

// --- request/response shapes ---

type createHoldingRequest struct {
	SchemeName string      `json:"scheme_name"`
	Amount     json.Number `json:"amount"`
	BuyDate    string      `json:"buy_date"` // YYYY-MM-DD
}

type patchHoldingRequest struct {
	Amount json.Number `json:"amount"`
}

type applySipRequest struct {
	Amount     json.Number `json:"amount"`
	DayOfMonth int         `json:"day_of_month"`
	StartDate  string      `json:"start_date"` // YYYY-MM-DD
}

type sipInstallmentResponse struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Nav    float64 `json:"nav"`
	Units  float64 `json:"units"`
}

type sipDetailsResponse struct {
	Amount      float64                  `json:"amount"`
	DayOfMonth  int                      `json:"day_of_month"`
	StartDate   string                   `json:"start_date"`
	Investments []sipInstallmentResponse `json:"investments"`
}

type holdingResponse struct {
	SchemeCode     string              `json:"scheme_code"`
	SchemeName     string              `json:"scheme_name"`
	AmountInvested float64             `json:"amount_invested"`
	BuyDate        string              `json:"buy_date"`
	BuyPrice       float64             `json:"buy_price"`
	Units          float64             `json:"units"`
	SipDetails     *sipDetailsResponse `json:"sip_details,omitempty"`
}

// holdingValuationResponse lists a holding with its valuation; the valuation
// fields are null for an unpriced holding so a client can tell "worth
// nothing" from "couldn't be priced"
type holdingValuationResponse struct {
	holdingResponse
	CurrentNav     *float64 `json:"current_nav"`
	CurrentValue   *float64 `json:"current_value"`
	ReturnsPercent *float64 `json:"returns_percent"`
	Priced         bool     `json:"priced"`
	UnpricedReason string   `json:"unpriced_reason,omitempty"`
}

type summaryResponse struct {
	Holdings            []holdingValuationResponse `json:"holdings"`
	TotalInvestment     float64                    `json:"total_investment"`
	TotalValue          float64                    `json:"total_value"`
	TotalReturnsPercent float64                    `json:"total_returns_percent"`
}

type snapshotResponse struct {
	Date           string  `json:"date"`
	Value          float64 `json:"value"`
	Investment     float64 `json:"investment"`
	ReturnsPercent float64 `json:"returns_percent"`
}

type monthlyValueResponse struct {
	Date  string  `json:"date"`
	Nav   float64 `json:"nav"`
	Value float64 `json:"value"`
}

func toHoldingResponse(h *domain.Holding) holdingResponse {
	resp := holdingResponse{
		SchemeCode:     h.SchemeCode,
		SchemeName:     h.SchemeName,
		AmountInvested: h.AmountInvested.InexactFloat64(),
		BuyDate:        domain.FormatNavDate(h.BuyDate),
		BuyPrice:       h.BuyPrice.InexactFloat64(),
		Units:          h.Units.InexactFloat64(),
	}
	if h.Sip != nil {
		details := &sipDetailsResponse{
			Amount:      h.Sip.Amount.InexactFloat64(),
			DayOfMonth:  h.Sip.DayOfMonth,
			StartDate:   domain.FormatNavDate(h.Sip.StartDate),
			Investments: make([]sipInstallmentResponse, 0, len(h.Sip.Investments)),
		}
		for _, inv := range h.Sip.Investments {
			details.Investments = append(details.Investments, sipInstallmentResponse{
				Date:   domain.FormatNavDate(inv.Date),
				Amount: inv.Amount.InexactFloat64(),
				Nav:    inv.Nav.InexactFloat64(),
				Units:  inv.Units.InexactFloat64(),
			})
		}
		resp.SipDetails = details
	}
	return resp
}

// --- fund pass-through handlers ---

// HandleListFunds returns every scheme known to the NAV provider
func (h *Handler) HandleListFunds(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.navProvider.SchemeCodes(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result := make([]map[string]string, 0, len(schemes))
	for _, s := range schemes {
		result = append(result, map[string]string{
			"scheme_code": s.Code,
			"scheme_name": s.Name,
		})
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetFund returns the provider's current details for one scheme
func (h *Handler) HandleGetFund(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")

	details, err := h.navProvider.CurrentDetails(r.Context(), schemeCode)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scheme_code":  details.SchemeCode,
		"scheme_name":  details.SchemeName,
		"nav":          details.Nav.InexactFloat64(),
		"last_updated": details.LastUpdated,
	})
}

// --- portfolio handlers ---

// HandleCreateHolding records a lump-sum purchase
func (h *Handler) HandleCreateHolding(w http.ResponseWriter, r *http.Request) {
	var req createHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	buyDate, err := domain.ParseAPIDate(req.BuyDate)
	if err != nil {
		h.respondError(w, r, &domain.ValidationError{Field: "buy_date", Reason: "must be YYYY-MM-DD"})
		return
	}

	created, err := h.holdingService.Create(r.Context(), holding.CreateHoldingInput{
		SchemeName: req.SchemeName,
		Amount:     amount,
		BuyDate:    buyDate,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toHoldingResponse(created))
}

// HandleGetPortfolio returns every holding valued at its current NAV plus
// totals over the priced holdings
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.Summarize(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := summaryResponse{
		Holdings:            make([]holdingValuationResponse, 0, len(summary.Holdings)),
		TotalInvestment:     summary.TotalInvestment.InexactFloat64(),
		TotalValue:          summary.TotalValue.InexactFloat64(),
		TotalReturnsPercent: summary.TotalReturnsPercent.InexactFloat64(),
	}
	for _, result := range summary.Holdings {
		entry := holdingValuationResponse{
			holdingResponse: toHoldingResponse(result.Holding),
			Priced:          result.Priced,
			UnpricedReason:  result.UnpricedReason,
		}
		if result.Priced {
			nav := result.CurrentNav.InexactFloat64()
			value := result.CurrentValue.InexactFloat64()
			returns := result.ReturnsPercent.InexactFloat64()
			entry.CurrentNav = &nav
			entry.CurrentValue = &value
			entry.ReturnsPercent = &returns
		}
		resp.Holdings = append(resp.Holdings, entry)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleGetHistory returns the portfolio-value timeline for a date range,
// defaulting to the trailing 365 days
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	end := domain.DateOnly(time.Now())
	start := end.AddDate(0, 0, -defaultHistoryDays)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := domain.ParseAPIDate(raw)
		if err != nil {
			h.respondError(w, r, &domain.ValidationError{Field: "start", Reason: "must be YYYY-MM-DD"})
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := domain.ParseAPIDate(raw)
		if err != nil {
			h.respondError(w, r, &domain.ValidationError{Field: "end", Reason: "must be YYYY-MM-DD"})
			return
		}
		end = parsed
	}

	snapshots, err := h.historyService.PortfolioHistory(r.Context(), start, end)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		result = append(result, snapshotResponse{
			Date:           domain.FormatNavDate(s.Date),
			Value:          s.Value.InexactFloat64(),
			Investment:     s.Investment.InexactFloat64(),
			ReturnsPercent: s.ReturnsPercent.InexactFloat64(),
		})
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetHolding returns one holding plus its month-bucketed performance
// history (first NAV observation per calendar month from buy date to today)
func (h *Handler) HandleGetHolding(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")

	held, err := h.holdingService.Get(r.Context(), schemeCode)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	months, err := h.historyService.HoldingPerformance(r.Context(), schemeCode)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	performance := make([]monthlyValueResponse, 0, len(months))
	for _, m := range months {
		performance = append(performance, monthlyValueResponse{
			Date:  domain.FormatNavDate(m.Date),
			Nav:   m.Nav.InexactFloat64(),
			Value: m.Value.InexactFloat64(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"holding":     toHoldingResponse(held),
		"performance": performance,
	})
}

// HandlePatchHolding edits the invested amount of a holding
func (h *Handler) HandlePatchHolding(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")

	var req patchHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	updated, err := h.holdingService.UpdateAmount(r.Context(), schemeCode, amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toHoldingResponse(updated))
}

// HandleApplySip applies or extends a SIP schedule on a holding
func (h *Handler) HandleApplySip(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")

	var req applySipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	input := sip.ApplySipInput{
		Amount:     amount,
		DayOfMonth: req.DayOfMonth,
	}
	if req.StartDate != "" {
		startDate, err := domain.ParseAPIDate(req.StartDate)
		if err != nil {
			h.respondError(w, r, &domain.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"})
			return
		}
		input.StartDate = startDate
	}

	updated, err := h.sipService.Apply(r.Context(), schemeCode, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toHoldingResponse(updated))
}

// HandleDeleteHolding removes a holding
func (h *Handler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	schemeCode := chi.URLParam(r, "schemeCode")

	if err := h.holdingService.Delete(r.Context(), schemeCode); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func parseAmount(raw json.Number) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, &domain.ValidationError{Field: "amount", Reason: "required"}
	}
	amount, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "amount", Reason: "not a number"}
	}
	return amount, nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var ve *domain.ValidationError
	var dse *domain.DataSourceError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrHoldingNotFound), errors.Is(err, domain.ErrSchemeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAmbiguousScheme):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &dse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps an error to a status, hiding internal detail on 5xx
// responses (the detail is logged, never exposed)
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		message = "internal error"
		if status == http.StatusBadGateway {
			message = "NAV data source unavailable"
		}
	}
	h.writeError(w, status, message)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
