package worker

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"newsfeed/internal/usecase/contract"
)

// Worker metrics register globally, so the package shares one set.
var testMetrics = NewWorkerMetrics()

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	m := testMetrics
	before := testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("contract", "success"))

	m.RecordJobRun("contract", 1.5, nil)
	m.RecordJobRun("contract", 0.2, errors.New("catalogue unreadable"))

	assert.Equal(t, before+1, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("contract", "success")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("contract", "failure")), 1.0)
	assert.Greater(t, testutil.ToFloat64(m.JobLastSuccessTimestamp.WithLabelValues("contract")), 0.0)
}

func TestWorkerMetrics_RecordReport(t *testing.T) {
	m := testMetrics
	m.RecordReport(&contract.Report{Results: []contract.Result{
		{Source: "metrics-top", Entries: 18, Skipped: 2},
		{Source: "metrics-broken", Err: errors.New("invalid feed payload")},
	}})

	assert.Equal(t, 18.0, testutil.ToFloat64(m.SourceEntries.WithLabelValues("metrics-top")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceSkipped.WithLabelValues("metrics-top")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceUp.WithLabelValues("metrics-top")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SourceUp.WithLabelValues("metrics-broken")))
}

func TestWorkerMetrics_RecordPurged(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.PurgedEventsTotal)
	testMetrics.RecordPurged(42)
	assert.Equal(t, before+42, testutil.ToFloat64(testMetrics.PurgedEventsTotal))
}
