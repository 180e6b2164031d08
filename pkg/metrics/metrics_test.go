package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDispatch(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveDispatch("get_all_fa_names", "ok", time.Second)
	m.ObserveDispatch("get_all_fa_names", "ok", time.Second)
	m.ObserveDispatch("", "direct", time.Second)

	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("get_all_fa_names", "ok")); got != 2 {
		t.Fatalf("dispatch_total{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("none", "direct")); got != 1 {
		t.Fatalf("dispatch_total{none,direct} = %v, want 1", got)
	}
}

func TestObserveRequestAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("GET /api/fa", http.StatusOK, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /api/fa", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "faq_http_requests_total") {
		t.Fatalf("exposition missing faq_http_requests_total:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveDispatch("x", "ok", time.Second)
	m.ObserveRequest("x", http.StatusOK, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
