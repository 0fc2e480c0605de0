// Package navapi provides the NAV data source client for the public
// mutual-fund API (mfapi.in-compatible JSON).
package navapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/fundfolio-backend/internal/domain"
)

// DefaultBaseURL is the public mutual-fund NAV API
const DefaultBaseURL = "https://api.mfapi.in"

// Client implements domain.NavProvider against the mfapi.in JSON API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new NAV API client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "navapi").Logger(),
	}
}

// schemeListEntry is one row of the full scheme listing.
// The API reports scheme codes as numbers.
type schemeListEntry struct {
	SchemeCode json.Number `json:"schemeCode"`
	SchemeName string      `json:"schemeName"`
}

// schemeResponse is the per-scheme payload shared by the latest and
// historical endpoints
type schemeResponse struct {
	Meta struct {
		SchemeCode json.Number `json:"scheme_code"`
		SchemeName string      `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"` // day-month-year
		Nav  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// CurrentDetails fetches the latest published snapshot for a scheme
func (c *Client) CurrentDetails(ctx context.Context, schemeCode string) (*domain.FundDetails, error) {
	var payload schemeResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s/latest", c.baseURL, schemeCode), "current details", &payload); err != nil {
		return nil, err
	}

	if len(payload.Data) == 0 {
		return nil, domain.ErrSchemeNotFound
	}

	nav, err := decimal.NewFromString(payload.Data[0].Nav)
	if err != nil {
		return nil, &domain.DataSourceError{Op: "current details", Err: fmt.Errorf("unparsable nav %q: %w", payload.Data[0].Nav, err)}
	}

	return &domain.FundDetails{
		SchemeCode:  schemeCode,
		SchemeName:  payload.Meta.SchemeName,
		Nav:         nav,
		LastUpdated: payload.Data[0].Date,
	}, nil
}

// HistoricalSeries fetches a scheme's full NAV history and restricts it to
// [start, end]. A malformed observation fails the whole call: a partial
// series must never be returned as if it were complete.
func (c *Client) HistoricalSeries(ctx context.Context, schemeCode string, start, end time.Time) (domain.NavSeries, error) {
	var payload schemeResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s", c.baseURL, schemeCode), "historical series", &payload); err != nil {
		return nil, err
	}

	if len(payload.Data) == 0 {
		return nil, domain.ErrSchemeNotFound
	}

	start = domain.DateOnly(start)
	end = domain.DateOnly(end)

	series := make(domain.NavSeries)
	for _, entry := range payload.Data {
		date, err := domain.ParseNavDate(entry.Date)
		if err != nil {
			return nil, &domain.DataSourceError{Op: "historical series", Err: fmt.Errorf("unparsable date %q: %w", entry.Date, err)}
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		nav, err := decimal.NewFromString(entry.Nav)
		if err != nil {
			return nil, &domain.DataSourceError{Op: "historical series", Err: fmt.Errorf("unparsable nav %q: %w", entry.Nav, err)}
		}
		series[entry.Date] = nav
	}

	c.log.Debug().
		Str("scheme_code", schemeCode).
		Int("observations", len(series)).
		Msg("Fetched historical series")

	return series, nil
}

// ResolveSchemeCode maps an exact scheme name to its code.
// Returns domain.ErrAmbiguousScheme unless exactly one scheme matches.
func (c *Client) ResolveSchemeCode(ctx context.Context, schemeName string) (string, error) {
	schemes, err := c.SchemeCodes(ctx)
	if err != nil {
		return "", err
	}

	var code string
	matches := 0
	for _, s := range schemes {
		if s.Name == schemeName {
			code = s.Code
			matches++
		}
	}
	if matches != 1 {
		return "", domain.ErrAmbiguousScheme
	}
	return code, nil
}

// SchemeCodes lists every scheme known to the provider
func (c *Client) SchemeCodes(ctx context.Context) ([]domain.SchemeRef, error) {
	var entries []schemeListEntry
	if err := c.getJSON(ctx, c.baseURL+"/mf", "scheme listing", &entries); err != nil {
		return nil, err
	}

	schemes := make([]domain.SchemeRef, 0, len(entries))
	for _, entry := range entries {
		schemes = append(schemes, domain.SchemeRef{
			Code: entry.SchemeCode.String(),
			Name: entry.SchemeName,
		})
	}
	return schemes, nil
}

// getJSON performs a GET request and decodes the JSON body, mapping transport
// and status failures to DataSourceError
func (c *Client) getJSON(ctx context.Context, url, op string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.DataSourceError{Op: op, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.DataSourceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrSchemeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &domain.DataSourceError{Op: op, Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.DataSourceError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
