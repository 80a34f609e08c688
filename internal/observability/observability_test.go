package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.TransformErrors.WithLabelValues("malformed").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.TransformErrors.WithLabelValues("malformed")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.TransformErrors.WithLabelValues("malformed")), 0)
}
