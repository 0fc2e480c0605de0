package navapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/simaogato/fundfolio-backend/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, zerolog.Nop()), server
}

func TestCurrentDetails(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mf/120503/latest", r.URL.Path)
		w.Write([]byte(`{
			"meta": {"scheme_code": 120503, "scheme_name": "Axis Bluechip Fund - Growth"},
			"data": [{"date": "28-08-2026", "nav": "58.4100"}],
			"status": "SUCCESS"
		}`))
	}))
	defer server.Close()

	// Execute
	details, err := client.CurrentDetails(context.Background(), "120503")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "120503", details.SchemeCode)
	assert.Equal(t, "Axis Bluechip Fund - Growth", details.SchemeName)
	assert.Equal(t, "58.41", details.Nav.String())
	assert.Equal(t, "28-08-2026", details.LastUpdated)
}

func TestCurrentDetails_EmptyData(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": [], "status": "SUCCESS"}`))
	}))
	defer server.Close()

	// Execute
	_, err := client.CurrentDetails(context.Background(), "999999")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSchemeNotFound)
}

func TestCurrentDetails_NotFound(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	// Execute
	_, err := client.CurrentDetails(context.Background(), "999999")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSchemeNotFound)
}

func TestCurrentDetails_ServerError(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Execute
	_, err := client.CurrentDetails(context.Background(), "120503")

	// Assert
	var dsErr *domain.DataSourceError
	assert.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "current details", dsErr.Op)
}

func TestHistoricalSeries_FiltersToRange(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mf/120503", r.URL.Path)
		w.Write([]byte(`{
			"meta": {"scheme_code": 120503, "scheme_name": "Axis Bluechip Fund - Growth"},
			"data": [
				{"date": "10-03-2026", "nav": "57.10"},
				{"date": "10-02-2026", "nav": "56.20"},
				{"date": "10-01-2026", "nav": "55.30"},
				{"date": "10-12-2025", "nav": "54.40"}
			],
			"status": "SUCCESS"
		}`))
	}))
	defer server.Close()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	// Execute
	series, err := client.HistoricalSeries(context.Background(), "120503", start, end)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, "55.3", series["10-01-2026"].String())
	assert.Equal(t, "56.2", series["10-02-2026"].String())
}

func TestHistoricalSeries_RangeIsInclusive(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"meta": {"scheme_code": 120503, "scheme_name": "Axis Bluechip Fund - Growth"},
			"data": [
				{"date": "31-01-2026", "nav": "56.00"},
				{"date": "15-01-2026", "nav": "55.50"},
				{"date": "01-01-2026", "nav": "55.00"}
			],
			"status": "SUCCESS"
		}`))
	}))
	defer server.Close()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// Execute
	series, err := client.HistoricalSeries(context.Background(), "120503", start, end)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, series, 3)
}

func TestHistoricalSeries_MalformedNav(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"meta": {"scheme_code": 120503, "scheme_name": "Axis Bluechip Fund - Growth"},
			"data": [{"date": "15-01-2026", "nav": "N.A."}],
			"status": "SUCCESS"
		}`))
	}))
	defer server.Close()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// Execute
	_, err := client.HistoricalSeries(context.Background(), "120503", start, end)

	// Assert
	var dsErr *domain.DataSourceError
	assert.True(t, errors.As(err, &dsErr))
}

func TestResolveSchemeCode(t *testing.T) {
	listing := `[
		{"schemeCode": 120503, "schemeName": "Axis Bluechip Fund - Growth"},
		{"schemeCode": 118989, "schemeName": "HDFC Index Fund - Nifty 50 Plan"},
		{"schemeCode": 120504, "schemeName": "Axis Bluechip Fund - IDCW"}
	]`

	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mf", r.URL.Path)
		w.Write([]byte(listing))
	}))
	defer server.Close()

	// Execute
	code, err := client.ResolveSchemeCode(context.Background(), "HDFC Index Fund - Nifty 50 Plan")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "118989", code)
}

func TestResolveSchemeCode_NoMatch(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"schemeCode": 120503, "schemeName": "Axis Bluechip Fund - Growth"}]`))
	}))
	defer server.Close()

	// Execute
	_, err := client.ResolveSchemeCode(context.Background(), "No Such Fund")

	// Assert
	assert.ErrorIs(t, err, domain.ErrAmbiguousScheme)
}

func TestResolveSchemeCode_DuplicateNames(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"schemeCode": 100001, "schemeName": "Axis Bluechip Fund - Growth"},
			{"schemeCode": 100002, "schemeName": "Axis Bluechip Fund - Growth"}
		]`))
	}))
	defer server.Close()

	// Execute
	_, err := client.ResolveSchemeCode(context.Background(), "Axis Bluechip Fund - Growth")

	// Assert
	assert.ErrorIs(t, err, domain.ErrAmbiguousScheme)
}

func TestSchemeCodes(t *testing.T) {
	// Setup
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"schemeCode": 120503, "schemeName": "Axis Bluechip Fund - Growth"},
			{"schemeCode": 118989, "schemeName": "HDFC Index Fund - Nifty 50 Plan"}
		]`))
	}))
	defer server.Close()

	// Execute
	schemes, err := client.SchemeCodes(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, schemes, 2)
	assert.Equal(t, domain.SchemeRef{Code: "120503", Name: "Axis Bluechip Fund - Growth"}, schemes[0])
}
