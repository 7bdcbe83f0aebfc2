package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/parcel/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that
// constructing a collector never panics on duplicate registration.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions   *prometheus.CounterVec
	planTotal          prometheus.Gauge
	planWorkers        prometheus.Gauge
	activeWorkers      prometheus.Gauge
	workerLaunches     *prometheus.CounterVec
	workerTerminations *prometheus.CounterVec
	workerLifetime     *prometheus.HistogramVec
	launchFailures     *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "parcel" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "parcel"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "supervisor",
			Name:      "state_transitions_total",
			Help:      "Total supervisor state transitions by target state.",
		}, []string{"from", "to"})

		p.planTotal = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "supervisor",
			Name:      "plan_total",
			Help:      "Total quantity of work in the current plan.",
		})

		p.planWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "supervisor",
			Name:      "plan_workers",
			Help:      "Number of shares in the current plan.",
		})

		p.activeWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "supervisor",
			Name:      "active_workers",
			Help:      "Workers launched and not yet terminated.",
		})

		p.workerLaunches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "launches_total",
			Help:      "Total worker launches by kind (initial, restart).",
		}, []string{"kind"})

		p.workerTerminations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "terminations_total",
			Help:      "Total worker terminations by outcome.",
		}, []string{"outcome"})

		p.workerLifetime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "lifetime_seconds",
			Help:      "Time between worker launch and termination in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4m
		}, []string{"outcome"})

		p.launchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "launch_failures_total",
			Help:      "Total launcher errors by sequence index.",
		}, []string{"index"})

		p.reg.MustRegister(p.stateTransitions)
		p.reg.MustRegister(p.planTotal)
		p.reg.MustRegister(p.planWorkers)
		p.reg.MustRegister(p.activeWorkers)
		p.reg.MustRegister(p.workerLaunches)
		p.reg.MustRegister(p.workerTerminations)
		p.reg.MustRegister(p.workerLifetime)
		p.reg.MustRegister(p.launchFailures)
	})
}

// RecordStateTransition increments the transition counter.
func (p *PrometheusCollector) RecordStateTransition(from, to types.State, _ /* duration */ float64) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordPlan sets the plan gauges.
func (p *PrometheusCollector) RecordPlan(total, workers int) {
	p.ensureRegistered()
	p.planTotal.Set(float64(total))
	p.planWorkers.Set(float64(workers))
}

// RecordActiveWorkers sets the outstanding worker gauge.
func (p *PrometheusCollector) RecordActiveWorkers(count int) {
	p.ensureRegistered()
	p.activeWorkers.Set(float64(count))
}

// RecordWorkerLaunch increments launches by kind.
func (p *PrometheusCollector) RecordWorkerLaunch(_ /* index */ int, restart bool) {
	p.ensureRegistered()
	kind := "initial"
	if restart {
		kind = "restart"
	}
	p.workerLaunches.WithLabelValues(kind).Inc()
}

// RecordWorkerTermination increments terminations and observes the worker lifetime.
func (p *PrometheusCollector) RecordWorkerTermination(outcome string, lifetime float64) {
	p.ensureRegistered()
	p.workerTerminations.WithLabelValues(outcome).Inc()
	p.workerLifetime.WithLabelValues(outcome).Observe(lifetime)
}

// RecordLaunchFailure increments launch failures for the index.
func (p *PrometheusCollector) RecordLaunchFailure(index int) {
	p.ensureRegistered()
	p.launchFailures.WithLabelValues(strconv.Itoa(index)).Inc()
}
