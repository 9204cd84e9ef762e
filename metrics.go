package ecverify

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ecverify"

// verifierMetrics holds the collectors of a Verifier. Without a registerer
// the collectors still count but are never exported.
type verifierMetrics struct {
	verifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	faults        *prometheus.CounterVec
}

func newVerifierMetrics(reg prometheus.Registerer) (*verifierMetrics, error) {
	m := &verifierMetrics{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "verifications_total",
			Help:      "Number of signature verifications by curve and outcome.",
		}, []string{"curve", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "verification_duration_seconds",
			Help:      "Time spent verifying a signature.",
			Buckets:   prometheus.ExponentialBuckets(50e-6, 2, 12),
		}, []string{"curve"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "faults_total",
			Help:      "Number of internal faults by curve and protocol state.",
		}, []string{"curve", "state"}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.verifications, err = register(reg, m.verifications); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.faults, err = register(reg, m.faults); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, or returns the collector already registered under
// the same description
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "registering verifier metrics")
	}
	return c, nil
}

func (m *verifierMetrics) observe(curve string, s Status, d time.Duration) {
	m.verifications.WithLabelValues(curve, s.String()).Inc()
	m.duration.WithLabelValues(curve).Observe(d.Seconds())
}

func (m *verifierMetrics) fault(curve string, state verifyState) {
	m.faults.WithLabelValues(curve, state.String()).Inc()
}
