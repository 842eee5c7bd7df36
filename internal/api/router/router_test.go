package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enmirex/cashoffer/internal/http/handlers"
	httpmiddleware "github.com/enmirex/cashoffer/internal/http/middleware"
	"github.com/enmirex/cashoffer/internal/leads"
	"github.com/enmirex/cashoffer/internal/observability/metrics"
	"github.com/enmirex/cashoffer/internal/sheets"
	"github.com/enmirex/cashoffer/pkg/logging"
)

type fakeAppender struct {
	mu   sync.Mutex
	rows [][]any
	err  error
}

func (f *fakeAppender) Append(_ context.Context, _, _ string, row []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row)
	return f.err
}

func (f *fakeAppender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type testServer struct {
	handler    http.Handler
	repo       *leads.InMemoryRepository
	dispatcher *leads.Dispatcher
	appender   *fakeAppender
}

type option func(*Config)

func newTestServer(t *testing.T, appendErr error, opts ...option) *testServer {
	t.Helper()

	logger := logging.Default()
	reg := prometheus.NewRegistry()
	leadMetrics := metrics.NewLeadMetrics(reg)
	appender := &fakeAppender{err: appendErr}
	syncer := sheets.NewSyncer(appender, sheets.Config{SpreadsheetID: "sheet-1"}, logger)
	dispatcher := leads.NewDispatcher(logger, leadMetrics, syncer)
	repo := leads.NewInMemoryRepository()

	cfg := &Config{
		Logger:         logger,
		LeadsHandler:   leads.NewHandler(repo, dispatcher, logger).WithObserver(leadMetrics),
		HealthHandler:  handlers.NewHealthHandler("test"),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = dispatcher.Wait(ctx)
	})

	return &testServer{handler: New(cfg), repo: repo, dispatcher: dispatcher, appender: appender}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) wait(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.dispatcher.Wait(ctx))
}

func sellerPayload() map[string]any {
	return map[string]any{
		"propertyAddress": "123 Main St",
		"city":            "Austin",
		"state":           "TX",
		"zipCode":         "78701",
		"fullName":        "Jane Doe",
		"phoneNumber":     "5551234567",
		"email":           "jane@example.com",
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Environment)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestRouterCreateAndListLeads(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/leads", sellerPayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created leads.CreateLeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.Lead.ID)
	assert.False(t, created.Lead.CreatedAt.IsZero())

	srv.wait(t)
	assert.Equal(t, 1, srv.appender.count(), "lead is appended to the sheet")

	rec = srv.do(t, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []leads.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.Lead.ID, listed[0].ID)
	assert.Nil(t, listed[0].Bedrooms)
}

func TestRouterMissingFieldIsNamed(t *testing.T) {
	srv := newTestServer(t, nil)
	payload := sellerPayload()
	delete(payload, "zipCode")

	rec := srv.do(t, http.MethodPost, "/api/leads", payload)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp leads.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation error", resp.Message)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "zipCode", resp.Errors[0].Field)
	assert.Zero(t, srv.repo.Count())
}

func TestRouterSinkFailureDoesNotAffectResponse(t *testing.T) {
	srv := newTestServer(t, errors.New("sheets unavailable"))

	rec := srv.do(t, http.MethodPost, "/api/leads", sellerPayload())
	require.Equal(t, http.StatusOK, rec.Code)
	srv.wait(t)

	rec = srv.do(t, http.MethodGet, "/api/leads", nil)
	var listed []leads.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestRouterIdenticalPayloadsGetDistinctIDs(t *testing.T) {
	srv := newTestServer(t, nil)

	var ids []string
	for i := 0; i < 2; i++ {
		rec := srv.do(t, http.MethodPost, "/api/leads", sellerPayload())
		require.Equal(t, http.StatusOK, rec.Code)
		var created leads.CreateLeadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		ids = append(ids, created.Lead.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, 2, srv.repo.Count())
}

func TestRouterMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPost, "/api/leads", sellerPayload())
	srv.wait(t)

	rec := srv.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "cashoffer_leads_created_total 1")
	assert.Contains(t, body, `cashoffer_leads_sync_total{sink="google_sheets",status="ok"} 1`)
	assert.Contains(t, body, "cashoffer_http_requests_total")
}

func TestRouterRateLimitOutsideProduction(t *testing.T) {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	limiter := httpmiddleware.NewRateLimiter(2, time.Minute, stop)
	srv := newTestServer(t, nil, func(c *Config) { c.RateLimiter = limiter })

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/leads", nil).Code)
	}
	rec := srv.do(t, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/metrics", nil).Code, "limit only covers /api/leads")
}

func TestRouterHealthIsNotRateLimited(t *testing.T) {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	limiter := httpmiddleware.NewRateLimiter(2, time.Minute, stop)
	srv := newTestServer(t, nil, func(c *Config) { c.RateLimiter = limiter })

	for i := 0; i < 5; i++ {
		rec := srv.do(t, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code, "health poll %d", i+1)
	}

	rec := srv.do(t, http.MethodPost, "/api/leads", sellerPayload())
	assert.Equal(t, http.StatusOK, rec.Code, "health polls must not spend the leads budget")
	srv.wait(t)
}

func TestRouterProductionHeadersAndNoRateLimit(t *testing.T) {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	limiter := httpmiddleware.NewRateLimiter(1, time.Minute, stop)
	srv := newTestServer(t, nil, func(c *Config) {
		c.Production = true
		c.RateLimiter = limiter
	})

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rec = srv.do(t, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestRouterUnknownAPIRouteIsJSON404(t *testing.T) {
	static := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("spa"))
	})
	srv := newTestServer(t, nil, func(c *Config) { c.StaticHandler = static })

	rec := srv.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/how-it-works", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "spa", rec.Body.String())
}
