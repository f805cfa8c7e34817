package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	IssuersGranted        prometheus.Counter
	CertificatesIssued    prometheus.Counter
	CertificatesDestroyed prometheus.Counter
	AuthFailures          prometheus.Counter
	BatchSize             prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		IssuersGranted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certmint_issuers_granted_total",
			Help: "Total number of issuer credentials granted",
		}),
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certmint_certificates_issued_total",
			Help: "Total number of certificates issued, counting each batch member",
		}),
		CertificatesDestroyed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certmint_certificates_destroyed_total",
			Help: "Total number of certificates destroyed by their recipients",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certmint_authorization_failures_total",
			Help: "Total number of rejected credential or identity checks",
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certmint_batch_issue_size",
			Help:    "Distribution of batch issuance sizes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// All methods tolerate a nil receiver so callers that run without
// metrics, tests mostly, don't have to guard every call.

// IncrementIssuersGranted increments the issuers granted counter by 1
func (m *Metrics) IncrementIssuersGranted() {
	if m == nil {
		return
	}
	m.IssuersGranted.Inc()
}

// IncrementCertificatesIssued adds n to the certificates issued counter
func (m *Metrics) IncrementCertificatesIssued(n int) {
	if m == nil {
		return
	}
	m.CertificatesIssued.Add(float64(n))
}

// IncrementCertificatesDestroyed increments the certificates destroyed counter by 1
func (m *Metrics) IncrementCertificatesDestroyed() {
	if m == nil {
		return
	}
	m.CertificatesDestroyed.Inc()
}

// IncrementAuthFailures increments the authorization failures counter by 1
func (m *Metrics) IncrementAuthFailures() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

// ObserveBatchSize records the size of one batch issuance
func (m *Metrics) ObserveBatchSize(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}
