package datefilter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements MetricsCollector with client_golang.
type PrometheusCollector struct {
	inserts        *prometheus.CounterVec
	insertLatency  prometheus.Histogram
	treesCreated   prometheus.Counter
	inputLines     *prometheus.CounterVec
	inputDuration  prometheus.Histogram
	teardowns      prometheus.Counter
	nodesReleased  prometheus.Counter
	memoryReleased prometheus.Counter
}

// NewPrometheusCollector creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "inserts_total",
			Help:      "Inserted timestamps by outcome (new, duplicate, error).",
		}, []string{"result"}),
		insertLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datefilter",
			Name:      "insert_duration_seconds",
			Help:      "Latency of a single insert.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
		treesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "trees_created_total",
			Help:      "Year trees allocated.",
		}),
		inputLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "input_lines_total",
			Help:      "Input lines by outcome (written, duplicate, parse_failure).",
		}, []string{"result"}),
		inputDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datefilter",
			Name:      "input_duration_seconds",
			Help:      "Time spent filtering one input.",
			Buckets:   prometheus.DefBuckets,
		}),
		teardowns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "teardowns_total",
			Help:      "Filter teardowns.",
		}),
		nodesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "nodes_released_total",
			Help:      "Tree nodes released by teardowns.",
		}),
		memoryReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datefilter",
			Name:      "memory_released_bytes_total",
			Help:      "Accounted bytes released by teardowns.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.inserts, p.insertLatency, p.treesCreated, p.inputLines,
		p.inputDuration, p.teardowns, p.nodesReleased, p.memoryReleased,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// RecordInsert implements MetricsCollector.
func (p *PrometheusCollector) RecordInsert(d time.Duration, seen bool, err error) {
	p.insertLatency.Observe(d.Seconds())
	switch {
	case err != nil:
		p.inserts.WithLabelValues("error").Inc()
	case seen:
		p.inserts.WithLabelValues("duplicate").Inc()
	default:
		p.inserts.WithLabelValues("new").Inc()
	}
}

// RecordTreeCreated implements MetricsCollector.
func (p *PrometheusCollector) RecordTreeCreated(int) {
	p.treesCreated.Inc()
}

// RecordInput implements MetricsCollector.
func (p *PrometheusCollector) RecordInput(_, parseFailures, written, duplicates int, d time.Duration) {
	p.inputLines.WithLabelValues("written").Add(float64(written))
	p.inputLines.WithLabelValues("duplicate").Add(float64(duplicates))
	p.inputLines.WithLabelValues("parse_failure").Add(float64(parseFailures))
	p.inputDuration.Observe(d.Seconds())
}

// RecordTeardown implements MetricsCollector.
func (p *PrometheusCollector) RecordTeardown(stats Stats) {
	p.teardowns.Inc()
	p.nodesReleased.Add(float64(stats.Nodes))
	p.memoryReleased.Add(float64(stats.MemoryBytes))
}
