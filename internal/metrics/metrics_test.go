package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordItem(t *testing.T) {
	ok := testutil.ToFloat64(ItemsProcessed.WithLabelValues("test-job", "ok"))
	failed := testutil.ToFloat64(ItemsProcessed.WithLabelValues("test-job", "failed"))

	RecordItem("test-job", nil)
	RecordItem("test-job", errors.New("boom"))
	RecordItem("test-job", errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(ItemsProcessed.WithLabelValues("test-job", "ok")))
	assert.Equal(t, failed+2, testutil.ToFloat64(ItemsProcessed.WithLabelValues("test-job", "failed")))
}

func TestRecordScan(t *testing.T) {
	before := testutil.ToFloat64(ScansTotal.WithLabelValues("scan-test", "completed"))
	RecordScan("scan-test", "completed", 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(ScansTotal.WithLabelValues("scan-test", "completed")))
}

func TestSetScanRunning(t *testing.T) {
	SetScanRunning("running-test", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(ScanRunning.WithLabelValues("running-test")))
	SetScanRunning("running-test", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(ScanRunning.WithLabelValues("running-test")))
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("tmdb-test", "closed", "open", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("tmdb-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("tmdb-test", "closed", "open")))
}
