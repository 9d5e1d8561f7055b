package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"capital-match/internal/common/config"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/observability"
)

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	var seen int64
	var activeDuring float64

	h := Instrument(taskType, observability.NewNoop(), func(_ worker.JobClient, job entities.Job) {
		seen = job.Key
		activeDuring = testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType))
	})
	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})

	assert.Equal(t, int64(42), seen)
	assert.Equal(t, 1.0, activeDuring)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}

func TestPool_StartSkipsDisabled(t *testing.T) {
	p := NewPool(nil, nil, logger.NewTestLogger(t))
	started := p.Start("evaluate-match", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {})
	assert.False(t, started)
	assert.Equal(t, 0, p.Len())
	p.Close()
}
