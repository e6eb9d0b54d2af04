package metrics

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one process. All methods are no-ops on a nil receiver.
type Metrics struct {
	namespace string
	system    string
	registry  *prometheus.Registry

	turnOutcome      *prometheus.CounterVec
	laneDegraded     *prometheus.CounterVec
	retrievedSources *prometheus.HistogramVec
	generationTime   *prometheus.HistogramVec
	titleOutcome     *prometheus.CounterVec
}

func New(ns, system string) *Metrics {
	m := &Metrics{
		namespace: ns,
		system:    system,
		registry:  prometheus.NewRegistry(),
	}
	m.registry.MustRegister(collectors.NewGoCollector())

	m.turnOutcome = m.newCounterVec("turn_outcome", []string{"mode", "outcome"})
	m.laneDegraded = m.newCounterVec("retrieval_lane_degraded", []string{"lane"})
	m.retrievedSources = m.newHistogramVec("retrieved_sources", []string{"lane"}, []float64{0, 1, 2, 5, 10, 20, 50})
	m.generationTime = m.newHistogramVec("generation_seconds", []string{"mode"}, prometheus.DefBuckets)
	m.titleOutcome = m.newCounterVec("title_outcome", []string{"outcome"})
	return m
}

func (m *Metrics) newCounterVec(name string, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: FmtFixer(m.namespace),
			Subsystem: FmtFixer(m.system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s count of /%s/%s", name, m.namespace, m.system),
		},
		labels,
	)
	m.registry.MustRegister(vec)
	return vec
}

func (m *Metrics) newHistogramVec(name string, labels []string, buckets []float64) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: FmtFixer(m.namespace),
			Subsystem: FmtFixer(m.system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s distribution of /%s/%s", name, m.namespace, m.system),
			Buckets:   buckets,
		},
		labels,
	)
	m.registry.MustRegister(vec)
	return vec
}

func (m *Metrics) TurnOutcomeInc(mode, outcome string) {
	if m == nil {
		return
	}
	m.turnOutcome.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) LaneDegradedInc(lane string) {
	if m == nil {
		return
	}
	m.laneDegraded.WithLabelValues(lane).Inc()
}

func (m *Metrics) RetrievedSourcesObserve(lane string, count int) {
	if m == nil {
		return
	}
	m.retrievedSources.WithLabelValues(lane).Observe(float64(count))
}

func (m *Metrics) TitleOutcomeInc(outcome string) {
	if m == nil {
		return
	}
	m.titleOutcome.WithLabelValues(outcome).Inc()
}

// GenerationTimer measures one streamed response. Call ObserveDuration when the stream ends.
func (m *Metrics) GenerationTimer(mode string) *prometheus.Timer {
	if m == nil {
		return prometheus.NewTimer(prometheus.ObserverFunc(func(float64) {}))
	}
	return prometheus.NewTimer(m.generationTime.WithLabelValues(mode))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func FmtFixer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "-", "_"), ".", "_")
}
