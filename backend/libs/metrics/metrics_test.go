package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStoreOperation(t *testing.T) {
	m := New("chargehub")
	m.ObserveStoreOperation("create", "local")
	m.ObserveStoreOperation("create", "local")
	m.ObserveStoreOperation("create", "durable")

	if got := testutil.ToFloat64(m.storeOutcomes.WithLabelValues("create", "local")); got != 2 {
		t.Fatalf("expected 2 local creates, got %v", got)
	}
	if got := testutil.ToFloat64(m.storeOutcomes.WithLabelValues("create", "durable")); got != 1 {
		t.Fatalf("expected 1 durable create, got %v", got)
	}
}

func TestHandlerExposesInstruments(t *testing.T) {
	m := New("chargehub")
	m.ObserveRequest("GET", 200, 15*time.Millisecond)
	m.SetActiveSessions(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"chargehub_http_requests_total", "chargehub_active_sessions 3"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %q in exposition output", name)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveStoreOperation("delete", "local")
	m.ObserveRequest("GET", 404, time.Millisecond)
	m.SetActiveSessions(1)
	m.AddLiveConnections(1)
}
