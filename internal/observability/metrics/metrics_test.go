package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveCreated()
	m.ObserveCreated()
	m.ObserveRejected("validation")
	m.ObserveSync("google_sheets", "ok", 0.2)
	m.ObserveSync("google_sheets", "error", 0.4)

	if got := testutil.ToFloat64(m.createdTotal); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejectedTotal.WithLabelValues("validation")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
	if got := testutil.ToFloat64(m.syncTotal.WithLabelValues("google_sheets", "error")); got != 1 {
		t.Fatalf("expected 1 failed sync, got %v", got)
	}
	if got := testutil.CollectAndCount(m.syncLatency); got != 1 {
		t.Fatalf("expected one latency series, got %d", got)
	}
}

func TestLeadMetricsSyncLatencyHistogram(t *testing.T) {
	m := NewLeadMetrics(prometheus.NewRegistry())
	m.ObserveSync("lead_alert_email", "ok", 0.3)
	m.ObserveSync("lead_alert_email", "error", 1.2)

	var out dto.Metric
	metric, ok := m.syncLatency.WithLabelValues("lead_alert_email").(prometheus.Metric)
	if !ok {
		t.Fatal("expected histogram to be a metric")
	}
	if err := metric.Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := out.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
	if got := out.GetHistogram().GetSampleSum(); got < 1.49 || got > 1.51 {
		t.Fatalf("expected sum 1.5, got %v", got)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("POST", "/api/leads", "200", 0.01)
	m.ObserveRequest("POST", "/api/leads", "400", 0.01)
	m.ObserveRequest("POST", "/api/leads", "200", 0.02)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/api/leads", "200")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
}

func TestMetricsDefaultRegistry(t *testing.T) {
	// Registering twice against the default registry would panic, so this is
	// the only test that uses it.
	m := NewLeadMetrics(nil)
	m.ObserveCreated()
}

func TestMetricsNilSafe(t *testing.T) {
	var lm *LeadMetrics
	lm.ObserveCreated()
	lm.ObserveRejected("validation")
	lm.ObserveSync("sink", "ok", 0.1)

	var hm *HTTPMetrics
	hm.ObserveRequest("GET", "/", "200", 0.1)
}
