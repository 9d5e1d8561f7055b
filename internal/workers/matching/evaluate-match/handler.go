// internal/workers/matching/evaluate-match/handler.go
package evaluatematch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
	"capital-match/internal/visualizer"
)

const (
	TaskType = "evaluate-match"
)

// CatalogSource yields the current fixture catalog; the dashboard satisfies it.
type CatalogSource interface {
	Catalog() *fixtures.Catalog
}

type Handler struct {
	config     *Config
	catalog    CatalogSource
	engine     matching.Engine
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, catalog CatalogSource, engine matching.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
		engine:     engine,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput([]byte(job.Variables))
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(raw []byte) (*Input, error) {
	if h.config.Schema != nil {
		if res := h.config.Schema.Validate(raw); !res.Valid {
			return nil, errors.NewInvalidInputError(res.Error())
		}
	}
	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	if input.LPID == "" || input.DealID == "" {
		return nil, errors.NewInvalidInputError("lpId and dealId are required")
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	c := h.catalog.Catalog()
	lp, err := c.LP(input.LPID)
	if err != nil {
		return nil, err
	}
	deal, err := c.Deal(input.DealID)
	if err != nil {
		return nil, err
	}

	resp, err := h.engine.Evaluate(ctx, lp, deal)
	if err != nil {
		return nil, err
	}

	// output arrays are never null
	if resp.KeyTalkingPoints == nil {
		resp.KeyTalkingPoints = []string{}
	}
	out := &Output{
		LPID:                lp.ID,
		DealID:              deal.ID,
		ConfidenceScore:     resp.ConfidenceScore,
		Strength:            visualizer.BandFor(resp.ConfidenceScore).Strength,
		Factors:             resp.Factors,
		KeyTalkingPoints:    resp.KeyTalkingPoints,
		RecommendedApproach: resp.RecommendedApproach,
		EvaluatedAt:         h.now().UTC().Format(time.RFC3339),
	}

	h.logger.Info("match evaluated", map[string]interface{}{
		"lpId":       lp.ID,
		"dealId":     deal.ID,
		"confidence": out.ConfidenceScore,
		"strength":   out.Strength,
	})
	return out, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
