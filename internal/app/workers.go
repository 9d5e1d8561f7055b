// internal/app/workers.go
package app

import (
	"fmt"
	"time"

	"capital-match/internal/common/camunda"
	"capital-match/internal/common/config"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/validation"
	"capital-match/internal/matching"
	"capital-match/internal/simulation"
	san "capital-match/internal/workers/alerts/send-alert-notification"
	em "capital-match/internal/workers/matching/evaluate-match"
	sm "capital-match/internal/workers/matching/simulate-match"
	"capital-match/pkg/registry"
)

// WorkerDeps is everything the job handlers share.
type WorkerDeps struct {
	Catalog em.CatalogSource
	Engine  matching.Engine
	Mailer  san.Mailer
	SMS     san.SMSSender
	Logger  logger.Logger
}

// Handlers builds every job handler keyed by task type, with input schemas and
// timeouts taken from the activity registry and the workers config.
func Handlers(cfg *config.Config, reg *registry.ActivityRegistry, d WorkerDeps) (map[string]camunda.JobHandler, error) {
	type settings struct {
		schema  *validation.Schema
		timeout time.Duration
	}
	lookup := func(taskType string) (settings, error) {
		a, ok := reg.Find(taskType)
		if !ok {
			return settings{}, fmt.Errorf("task type %s is not in the activity registry", taskType)
		}
		schema, err := a.InputValidator()
		if err != nil {
			return settings{}, err
		}
		// an explicit workers entry wins over the registry timeout
		timeout := a.TimeoutOr(30 * time.Second)
		if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
			timeout = config.GetDuration(w.Timeout)
		}
		return settings{schema: schema, timeout: timeout}, nil
	}

	emSet, err := lookup(em.TaskType)
	if err != nil {
		return nil, err
	}
	emCfg := em.LoadConfig()
	emCfg.Schema, emCfg.Timeout = emSet.schema, emSet.timeout

	smSet, err := lookup(sm.TaskType)
	if err != nil {
		return nil, err
	}
	smCfg := sm.LoadConfig()
	smCfg.Schema, smCfg.Timeout = smSet.schema, smSet.timeout
	smCfg.Bounds = simulation.DefaultBounds()

	sanSet, err := lookup(san.TaskType)
	if err != nil {
		return nil, err
	}
	sanCfg := san.LoadConfig(cfg.Notifications)
	sanCfg.Schema, sanCfg.Timeout = sanSet.schema, sanSet.timeout

	return map[string]camunda.JobHandler{
		em.TaskType:  em.NewHandler(emCfg, d.Catalog, d.Engine, d.Logger).Handle,
		sm.TaskType:  sm.NewHandler(smCfg, d.Catalog, d.Engine, d.Logger).Handle,
		san.TaskType: san.NewHandler(sanCfg, d.Catalog, d.Mailer, d.SMS, d.Logger).Handle,
	}, nil
}

// StartWorkers opens a job worker per enabled handler and returns how many started.
func StartWorkers(pool *camunda.Pool, cfg *config.Config, handlers map[string]camunda.JobHandler) int {
	started := 0
	for taskType, h := range handlers {
		if pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), h) {
			started++
		}
	}
	return started
}
