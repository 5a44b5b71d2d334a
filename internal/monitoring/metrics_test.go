package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecalculation(t *testing.T) {
	before := testutil.ToFloat64(Plans.RecalculationsTotal.WithLabelValues("attach", StatusSuccess))
	RecordRecalculation("attach", StatusSuccess, 10*time.Millisecond)
	after := testutil.ToFloat64(Plans.RecalculationsTotal.WithLabelValues("attach", StatusSuccess))

	assert.Equal(t, before+1, after)
}

func TestRecordLinks(t *testing.T) {
	before := testutil.ToFloat64(Ledger.LinksTotal.WithLabelValues("attach"))
	RecordLinks("attach", 3)
	RecordLinks("attach", 0)

	assert.Equal(t, before+3, testutil.ToFloat64(Ledger.LinksTotal.WithLabelValues("attach")))
}

func TestRecordWorkerStats(t *testing.T) {
	RecordWorkerStats(4, 2, 1)

	assert.Equal(t, float64(4), testutil.ToFloat64(Worker.QueueLength))
	assert.Equal(t, float64(2), testutil.ToFloat64(Worker.ActiveJobs))
	assert.Equal(t, float64(1), testutil.ToFloat64(Worker.FailedJobs))
}
