// internal/workers/matching/simulate-match/handler.go
package simulatematch

import (
	"context"
	"encoding/json"

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
	TaskType = "simulate-match"
)

type CatalogSource interface {
	Catalog() *fixtures.Catalog
}

type Handler struct {
	config     *Config
	catalog    CatalogSource
	engine     matching.Engine
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, catalog CatalogSource, engine matching.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
		engine:     engine,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
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
	if input.LPID == "" {
		return nil, errors.NewInvalidInputError("lpId is required")
	}
	return &input, nil
}

// execute clamps the requested terms into the slider ranges before scoring,
// exactly as the interactive panel does.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lp, err := h.catalog.Catalog().LP(input.LPID)
	if err != nil {
		return nil, err
	}

	params := h.config.Bounds.Clamp(input.Params)
	resp, err := h.engine.Simulate(ctx, lp, params)
	if err != nil {
		return nil, err
	}

	out := &Output{
		LPID:                   lp.ID,
		Params:                 params,
		Clamped:                params != input.Params,
		ConfidenceScore:        resp.ConfidenceScore,
		Strength:               visualizer.BandFor(resp.ConfidenceScore).Strength,
		SuggestedOptimizations: resp.SuggestedOptimizations,
	}
	if out.SuggestedOptimizations == nil {
		out.SuggestedOptimizations = []string{}
	}

	h.logger.Info("simulation scored", map[string]interface{}{
		"lpId":       lp.ID,
		"irr":        params.IRR,
		"em":         params.EquityMultiple,
		"investment": params.InvestmentSize,
		"clamped":    out.Clamped,
		"confidence": out.ConfidenceScore,
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
