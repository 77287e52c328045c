package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "extverify"
	runSubsystem     = "run"
)

// Verification run metrics
var (
	RunsTotalVec        *prometheus.CounterVec
	StepFailuresVec     *prometheus.CounterVec
	PollAttemptsVec     *prometheus.GaugeVec
	LastRunSucceededVec *prometheus.GaugeVec
	DurationVec         *prometheus.HistogramVec
)

// Register registers Prometheus metrics vectors to the registry.
func Register(registry prometheus.Registerer) {
	RunsTotalVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: runSubsystem,
		Name:      "total",
		Help:      "The number of verification runs",
	}, []string{"extension"})
	registry.MustRegister(RunsTotalVec)

	StepFailuresVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: runSubsystem,
		Name:      "step_failures_total",
		Help:      "The number of verification step failures",
	}, []string{"extension", "step"})
	registry.MustRegister(StepFailuresVec)

	PollAttemptsVec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: runSubsystem,
		Name:      "poll_attempts",
		Help:      "The number of onboarding poll attempts in the last run",
	}, []string{"extension"})
	registry.MustRegister(PollAttemptsVec)

	LastRunSucceededVec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: runSubsystem,
		Name:      "last_succeeded",
		Help:      "Whether the last verification run succeeded",
	}, []string{"extension"})
	registry.MustRegister(LastRunSucceededVec)

	DurationVec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: runSubsystem,
		Name:      "duration_seconds",
		Help:      "The wall-clock duration of verification runs",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"extension"})
	registry.MustRegister(DurationVec)
}
