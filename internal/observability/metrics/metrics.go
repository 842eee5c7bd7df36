package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cashoffer"

// LeadMetrics exposes counters/histograms for lead intake and sink fan-out.
type LeadMetrics struct {
	createdTotal  prometheus.Counter
	rejectedTotal *prometheus.CounterVec
	syncTotal     *prometheus.CounterVec
	syncLatency   *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &LeadMetrics{
		createdTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Total leads accepted and stored",
		}),
		rejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "rejected_total",
			Help:      "Total lead submissions rejected before storage",
		}, []string{"reason"}),
		syncTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "sync_total",
			Help:      "Total downstream sink attempts",
		}, []string{"sink", "status"}),
		syncLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "sync_duration_seconds",
			Help:      "Latency of downstream sink calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
	}
}

func (m *LeadMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *LeadMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *LeadMetrics) ObserveSync(sink, status string, seconds float64) {
	if m == nil {
		return
	}
	m.syncTotal.WithLabelValues(sink, status).Inc()
	m.syncLatency.WithLabelValues(sink).Observe(seconds)
}

// HTTPMetrics counts requests per method, route pattern and status.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &HTTPMetrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
