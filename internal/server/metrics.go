package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scorecard"

// Metrics holds the API's prometheus collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	leads        prometheus.Counter
	results      *prometheus.CounterVec
	overallScore prometheus.Histogram
	deliveries   *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		leads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_captured_total",
			Help:      "Leads accepted by the API",
		}),
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Scored submissions by band and segment",
		}, []string{"band", "segment"}),
		overallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Distribution of overall scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Delivery jobs by sink, event and outcome",
		}, []string{"sink", "event", "outcome"}),
	}
}

// RecordRequest counts one HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(latency.Seconds())
}

// RecordLead counts an accepted lead.
func (m *Metrics) RecordLead() {
	if m == nil {
		return
	}
	m.leads.Inc()
}

// RecordResult counts a scored submission.
func (m *Metrics) RecordResult(score int, band, segment string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(band, segment).Inc()
	m.overallScore.Observe(float64(score))
}

// RecordDelivery matches delivery.Observer.
func (m *Metrics) RecordDelivery(sink, event string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.deliveries.WithLabelValues(sink, event, outcome).Inc()
}
