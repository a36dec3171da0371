// Package metrics 提供匹配引擎与语料同步的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 汇总所有指标。nil 的 *Metrics 上调用任何方法都是空操作，便于测试与关闭指标。
type Metrics struct {
	matchRequests      *prometheus.CounterVec
	matchDuration      prometheus.Histogram
	candidatesDropped  *prometheus.CounterVec
	candidatesReturned prometheus.Counter
	rationales         *prometheus.CounterVec
	corpusProcessed    *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New 在给定的 Registerer 上注册所有指标。
func New(reg prometheus.Registerer, namespace string) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		matchRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "requests_total",
			Help:      "Total number of match runs by result",
		}, []string{"result"}),
		matchDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "duration_seconds",
			Help:      "End-to-end duration of a match run",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		candidatesDropped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "candidates_dropped_total",
			Help:      "Retrieved candidates dropped by the eligibility filter, by reason",
		}, []string{"reason"}),
		candidatesReturned: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "candidates_returned_total",
			Help:      "Candidates returned in shortlists",
		}),
		rationales: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "rationales_total",
			Help:      "Rationales produced, by source (generated or templated)",
		}, []string{"source"}),
		corpusProcessed: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "corpus",
			Name:      "employees_processed_total",
			Help:      "Employees processed by corpus sync, by result",
		}, []string{"result"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveMatch 记录一次匹配的结果与耗时。
func (m *Metrics) ObserveMatch(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.matchRequests.WithLabelValues(result).Inc()
	m.matchDuration.Observe(d.Seconds())
}

// AddDropped 按原因累加被过滤的候选人数量。
func (m *Metrics) AddDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidatesDropped.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) AddReturned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidatesReturned.Add(float64(n))
}

func (m *Metrics) IncRationale(source string) {
	if m == nil {
		return
	}
	m.rationales.WithLabelValues(source).Inc()
}

// AddCorpusProcessed 记录语料同步的成功/失败数量。
func (m *Metrics) AddCorpusProcessed(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.corpusProcessed.WithLabelValues(result).Add(float64(n))
}

// ObserveHTTP 记录一次 HTTP 请求。
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
