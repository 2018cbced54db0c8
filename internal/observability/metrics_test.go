package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/loans/:loan_id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })
	e.GET("/metrics", MetricsHandler(reg))

	for _, path := range []string{"/loans/a", "/loans/b", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/loans/:loan_id", "GET", "200")); got != 2 {
		t.Fatalf("loan route count = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/boom", "GET", "404")); got != 1 {
		t.Fatalf("error route count = %v", got)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "kitabu_http_requests_total") {
		t.Fatalf("metrics endpoint missing counters: %d", rec.Code)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env      string
		wantJSON bool
	}{
		{"prod", true},
		{"production", true},
		{"local", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		newLogger(tt.env, &buf).Info("loan issued", "loan_id", "l1")
		isJSON := strings.HasPrefix(buf.String(), "{")
		if isJSON != tt.wantJSON {
			t.Fatalf("env %s: json=%v, output %q", tt.env, isJSON, buf.String())
		}
		if !strings.Contains(buf.String(), "l1") {
			t.Fatalf("env %s: attribute missing in %q", tt.env, buf.String())
		}
	}
}
