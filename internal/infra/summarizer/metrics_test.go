package summarizer

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusSummaryMetrics(t *testing.T) {
	const provider = "metrics-test"
	m := NewPrometheusSummaryMetrics(provider)
	vecs := loadSummaryVecs()

	exceededBefore := testutil.ToFloat64(vecs.exceeded.WithLabelValues(provider))

	m.RecordLimitExceeded()
	m.RecordLimitExceeded()
	assert.Equal(t, exceededBefore+2, testutil.ToFloat64(vecs.exceeded.WithLabelValues(provider)))

	m.RecordCompliance(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(vecs.compliance.WithLabelValues(provider)))
	m.RecordCompliance(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(vecs.compliance.WithLabelValues(provider)))

	m.RecordLength(42)
	m.RecordDuration(1500 * time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(vecs.length), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(vecs.duration), 1)
}

func TestPrometheusSummaryMetrics_ProvidersAreIndependent(t *testing.T) {
	a := NewPrometheusSummaryMetrics("provider-a")
	NewPrometheusSummaryMetrics("provider-b")
	vecs := loadSummaryVecs()

	before := testutil.ToFloat64(vecs.exceeded.WithLabelValues("provider-b"))

	a.RecordLimitExceeded()

	assert.Equal(t, before, testutil.ToFloat64(vecs.exceeded.WithLabelValues("provider-b")))
}

func TestNewPrometheusSummaryMetrics_RegistersOnce(t *testing.T) {
	assert.NotPanics(t, func() {
		for range 3 {
			NewPrometheusSummaryMetrics("claude")
		}
	})
	assert.Same(t, loadSummaryVecs(), loadSummaryVecs())
}
