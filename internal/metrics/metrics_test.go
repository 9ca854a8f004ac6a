package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveAnalysis("SUCCESS", 3*time.Millisecond)
	m.ObserveAnalysis("SUCCESS", time.Millisecond)
	m.ObserveAnalysis("FAILURE", time.Millisecond)
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("boom"))
	m.ObserveFare("")
	m.ObserveRequest("/v1/analyze", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("FAILURE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fareResults.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/v1/analyze", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAnalysis("SUCCESS", time.Second)
	m.ObserveReload(nil)
	m.ObserveFare("CONSIDER")
	m.ObserveRequest("/", 404)
}
