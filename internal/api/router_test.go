package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/internal/api/handlers"
	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/internal/ratio"
	"github.com/wonny/ratioservice/pkg/config"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/metrics"
	"github.com/wonny/ratioservice/pkg/redis"
)

type fakeService struct {
	gotName string
	gotYear *int
	err     error
	panics  bool
}

func (f *fakeService) CalculateFinancialRatios(ctx context.Context, name string, year *int) (*contracts.MetricsResponse, error) {
	if f.panics {
		panic("boom")
	}
	f.gotName, f.gotYear = name, year
	if f.err != nil {
		return nil, f.err
	}
	roe := 5.0
	return &contracts.MetricsResponse{
		CompanyName: name,
		Years:       []string{"2023"},
		FinancialMetrics: contracts.FinancialMetrics{
			Years: []string{"2023"},
			ROE:   []*float64{&roe},
		},
	}, nil
}

type fakeLister struct {
	companies []contracts.Company
	err       error
	calls     int
}

func (f *fakeLister) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	f.calls++
	return f.companies, f.err
}

func newTestRouter(t *testing.T, svc *fakeService, lister *fakeLister, m *metrics.Metrics) http.Handler {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	cache := redis.NewCache(client, "test")

	h := handlers.NewRatioHandler(svc, lister, cache, logger.NewNop())
	return NewRouter(h, m, logger.NewNop())
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeService{}, &fakeLister{}, nil)

	rec := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ratioservice"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_IsEchoed(t *testing.T) {
	router := newTestRouter(t, &fakeService{}, &fakeLister{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestPostRatio(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(t, svc, &fakeLister{}, nil)

	rec := do(router, http.MethodPost, "/ratio", `{"company_name":" 샘플전자 ","year":2023}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "샘플전자", svc.gotName)
	require.NotNil(t, svc.gotYear)
	assert.Equal(t, 2023, *svc.gotYear)

	var resp contracts.MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "샘플전자", resp.CompanyName)
	assert.Equal(t, []string{"2023"}, resp.Years)
}

func TestPostRatio_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"invalid json", `{"company_name":`, "invalid request body"},
		{"missing name", `{"year":2023}`, "company_name is required"},
		{"blank name", `{"company_name":"   "}`, "company_name is required"},
		{"year too old", `{"company_name":"샘플전자","year":1800}`, "year must be at least 1990"},
		{"name too long", fmt.Sprintf(`{"company_name":%q}`, strings.Repeat("가", 101)), "company_name must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			router := newTestRouter(t, svc, &fakeLister{}, nil)

			rec := do(router, http.MethodPost, "/ratio", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			assert.Empty(t, svc.gotName, "service is not called")
		})
	}
}

func TestGetRatio(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(t, svc, &fakeLister{}, nil)

	rec := do(router, http.MethodGet, "/ratio/"+url.PathEscape("샘플전자")+"?year=2022", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "샘플전자", svc.gotName)
	require.NotNil(t, svc.gotYear)
	assert.Equal(t, 2022, *svc.gotYear)

	rec = do(router, http.MethodGet, "/ratio/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotYear)

	rec = do(router, http.MethodGet, "/ratio/abc?year=twenty", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "year must be a number", decodeError(t, rec))
}

func TestRatio_ErrorMapping(t *testing.T) {
	notFound := &fakeService{err: fmt.Errorf("calculate: %w", ratio.ErrNoData)}
	rec := do(newTestRouter(t, notFound, &fakeLister{}, nil), http.MethodGet, "/ratio/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "no financial statement data")

	failing := &fakeService{err: errors.New("connection refused")}
	rec = do(newTestRouter(t, failing, &fakeLister{}, nil), http.MethodGet, "/ratio/abc", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to calculate financial ratios", decodeError(t, rec))
}

func TestRecovery(t *testing.T) {
	router := newTestRouter(t, &fakeService{panics: true}, &fakeLister{}, nil)

	rec := do(router, http.MethodGet, "/ratio/abc", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec))
}

func TestListCompanies(t *testing.T) {
	lister := &fakeLister{companies: []contracts.Company{{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930"}}}
	router := newTestRouter(t, &fakeService{}, lister, nil)

	rec := do(router, http.MethodGet, "/ratio/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1,"companies":[{"corp_code":"00126380","corp_name":"삼성전자","stock_code":"005930"}]}`, rec.Body.String())
	assert.Equal(t, 1, lister.calls, "companies route wins over /ratio/{company}")

	empty := newTestRouter(t, &fakeService{}, &fakeLister{}, nil)
	rec = do(empty, http.MethodGet, "/ratio/companies", "")
	assert.JSONEq(t, `{"count":0,"companies":[]}`, rec.Body.String())

	broken := newTestRouter(t, &fakeService{}, &fakeLister{err: errors.New("db down")}, nil)
	rec = do(broken, http.MethodGet, "/ratio/companies", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListCompanies_NoCache(t *testing.T) {
	lister := &fakeLister{companies: []contracts.Company{{CorpCode: "1", CorpName: "알파"}}}
	h := handlers.NewRatioHandler(&fakeService{}, lister, nil, logger.NewNop())
	router := NewRouter(h, nil, logger.NewNop())

	rec := do(router, http.MethodGet, "/ratio/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	router := newTestRouter(t, &fakeService{}, &fakeLister{}, m)

	do(router, http.MethodGet, "/ratio/abc", "")
	rec := do(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ratioservice_http_requests_total{code="200",method="GET",route="/ratio/{company}"} 1`)

	withoutMetrics := newTestRouter(t, &fakeService{}, &fakeLister{}, nil)
	rec = do(withoutMetrics, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
