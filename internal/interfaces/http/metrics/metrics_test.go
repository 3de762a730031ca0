package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurant-api/internal/interfaces/http/metrics"
)

func TestResult(t *testing.T) {
	assert.Equal(t, metrics.ResultOK, metrics.Result(201))
	assert.Equal(t, metrics.ResultRejected, metrics.Result(409))
	assert.Equal(t, metrics.ResultError, metrics.Result(500))
}

func TestAssignmentWritesCounter(t *testing.T) {
	c := metrics.AssignmentWritesTotal.WithLabelValues("create_user", metrics.ResultOK)
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
