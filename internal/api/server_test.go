package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/metrics"
	"github.com/amosWeiskopf/aivis/pkg/scanner"
)

type fakeScanner struct {
	got     scanner.Request
	mode    string
	explode bool
}

func (s *fakeScanner) Scan(ctx context.Context, req scanner.Request) (models.ScanResult, error) {
	return s.run(ctx, req, models.ModeFull)
}

func (s *fakeScanner) QuickScan(ctx context.Context, req scanner.Request) (models.ScanResult, error) {
	return s.run(ctx, req, models.ModeQuick)
}

func (s *fakeScanner) run(_ context.Context, req scanner.Request, mode string) (models.ScanResult, error) {
	if s.explode {
		panic("scanner exploded")
	}
	s.got = req
	s.mode = mode
	if strings.TrimSpace(req.Domain) == "-" {
		return models.ScanResult{}, fmt.Errorf("%w: %q", scanner.ErrInvalidDomain, req.Domain)
	}
	return models.ScanResult{Meta: models.Meta{Domain: req.Domain, Mode: mode}, OverallScore: 42}, nil
}

func newTestRouter(s Scanner, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 100
		opts.Burst = 100
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.NewRegistry()
	}
	return NewRouter(s, opts)
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(&fakeScanner{}, Options{}), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+models.Version+`"}`, w.Body.String())
}

func TestScanEndpoints(t *testing.T) {
	tests := []struct {
		path string
		mode string
	}{
		{path: "/api/scan", mode: models.ModeFull},
		{path: "/api/quick-scan", mode: models.ModeQuick},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s := &fakeScanner{}
			w := do(newTestRouter(s, Options{}), http.MethodPost, tt.path,
				`{"domain":"acme.com","brand":"Acme","industry":"saas","competitors":["rival.com"]}`)
			require.Equal(t, http.StatusOK, w.Code)

			assert.Equal(t, tt.mode, s.mode)
			assert.Equal(t, scanner.Request{Domain: "acme.com", Brand: "Acme", Industry: "saas", Competitors: []string{"rival.com"}}, s.got)

			var result models.ScanResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, 42, result.OverallScore)
		})
	}
}

func TestScanBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing domain", body: `{"brand":"Acme"}`, want: "domain is required"},
		{name: "malformed", body: `{`, want: "domain is required"},
		{name: "too many competitors", body: `{"domain":"a.com","competitors":["b","c","d","e","f","g"]}`, want: "At most 5 competitors"},
		{name: "invalid domain", body: `{"domain":"-"}`, want: "invalid domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(&fakeScanner{}, Options{}), http.MethodPost, "/api/scan", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestScanPanicIsRecovered(t *testing.T) {
	w := do(newTestRouter(&fakeScanner{explode: true}, Options{}), http.MethodPost, "/api/scan", `{"domain":"acme.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, w.Body.String())
}

func TestPrompts(t *testing.T) {
	r := newTestRouter(&fakeScanner{}, Options{})

	w := do(r, http.MethodGet, "/api/prompts?industry=SaaS&brand=Acme&competitor=rival.com,other.de&competitor=third.io", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Industry string   `json:"industry"`
		Count    int      `json:"count"`
		Prompts  []string `json:"prompts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "saas", body.Industry)
	assert.Equal(t, 26, body.Count)
	assert.Equal(t, "Compare Acme and third.io", body.Prompts[25])

	w = do(r, http.MethodGet, "/api/prompts", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimitPerClient(t *testing.T) {
	r := newTestRouter(&fakeScanner{}, Options{RequestsPerSecond: 0.001, Burst: 2})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/quick-scan", strings.NewReader(`{"domain":"acme.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2"))

	// health is not rate limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/health", "").Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg).IncScan(models.ModeQuick)

	w := do(newTestRouter(&fakeScanner{}, Options{Gatherer: reg}), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `aivis_scans_total{mode="quick"} 1`)
}
