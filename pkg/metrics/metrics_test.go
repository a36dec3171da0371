package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "benchmatch")

	m.AddDropped("missing", 2)
	m.AddDropped("not_eligible", 3)
	m.AddDropped("missing", 0)
	m.IncRationale("templated")
	m.IncRationale("templated")
	m.AddReturned(5)
	m.AddCorpusProcessed("failed", 1)
	m.ObserveMatch("ok", 150*time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/search", "200", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.candidatesDropped.WithLabelValues("missing")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.candidatesDropped.WithLabelValues("not_eligible")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rationales.WithLabelValues("templated")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.candidatesReturned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.corpusProcessed.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchRequests.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "benchmatch_match_duration_seconds")
	assert.Contains(t, names, "benchmatch_http_request_duration_seconds")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddDropped("missing", 1)
		m.IncRationale("generated")
		m.ObserveMatch("ok", time.Second)
		m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
		m.AddCorpusProcessed("succeeded", 1)
		m.AddReturned(1)
	})
}
