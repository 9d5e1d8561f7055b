// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"capital-match/internal/common/config"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/observability"
)

// JobHandler is the signature every worker's Handle method has.
type JobHandler func(client worker.JobClient, job entities.Job)

// Instrument tracks active jobs and job duration around h. obs may be nil.
func Instrument(taskType string, obs *observability.Observability, h JobHandler) JobHandler {
	active := metrics.WorkerJobsActive.WithLabelValues(taskType)
	duration := metrics.WorkerJobDuration.WithLabelValues(taskType)
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		active.Inc()
		defer func() {
			elapsed := time.Since(start)
			active.Dec()
			duration.Observe(elapsed.Seconds())
			if obs != nil {
				obs.RecordJobProcessed(context.Background(), taskType, "handled")
				obs.RecordJobDuration(context.Background(), taskType, elapsed)
			}
		}()
		h(client, job)
	}
}

// Pool owns the opened job workers so they can be closed together.
type Pool struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	workers []worker.JobWorker
}

func NewPool(client zbc.Client, obs *observability.Observability, log logger.Logger) *Pool {
	return &Pool{client: client, obs: obs, logger: logger.Component(log, "camunda.workers")}
}

// Start opens a job worker for taskType unless wcfg disables it.
func (p *Pool) Start(taskType string, wcfg config.WorkerConfig, h JobHandler) bool {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := p.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, p.obs, h))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	p.workers = append(p.workers, jw)

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (p *Pool) Len() int {
	return len(p.workers)
}

// Close stops polling and waits for in-flight jobs to finish.
func (p *Pool) Close() {
	for _, w := range p.workers {
		w.Close()
	}
	for _, w := range p.workers {
		w.AwaitClose()
	}
	p.logger.Info("workers stopped", map[string]interface{}{"count": len(p.workers)})
	p.workers = nil
}
