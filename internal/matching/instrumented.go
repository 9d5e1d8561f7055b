// internal/matching/instrumented.go
package matching

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/observability"
	"capital-match/internal/models"
)

// InstrumentedEngine records Prometheus metrics, OTel meters and a span per call.
type InstrumentedEngine struct {
	next Engine
	obs  *observability.Observability
}

func NewInstrumentedEngine(next Engine, obs *observability.Observability) *InstrumentedEngine {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &InstrumentedEngine{next: next, obs: obs}
}

func (e *InstrumentedEngine) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	ctx, span := e.obs.StartSpan(ctx, "matching.evaluate",
		attribute.String("lp.id", lp.ID),
		attribute.String("deal.id", deal.ID),
	)
	defer span.End()

	start := time.Now()
	resp, err := e.next.Evaluate(ctx, lp, deal)
	e.record(ctx, OpEvaluate, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.AsStandard(err).Code))
		return nil, err
	}
	span.SetAttributes(attribute.Float64("match.confidence", resp.ConfidenceScore))
	return resp, nil
}

func (e *InstrumentedEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	ctx, span := e.obs.StartSpan(ctx, "matching.simulate",
		attribute.String("lp.id", lp.ID),
		attribute.Float64("sim.irr", params.IRR),
		attribute.Float64("sim.equity_multiple", params.EquityMultiple),
		attribute.Float64("sim.investment_size", params.InvestmentSize),
	)
	defer span.End()

	start := time.Now()
	resp, err := e.next.Simulate(ctx, lp, params)
	e.record(ctx, OpSimulate, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.AsStandard(err).Code))
		return nil, err
	}
	span.SetAttributes(attribute.Float64("match.confidence", resp.ConfidenceScore))
	return resp, nil
}

func (e *InstrumentedEngine) record(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = string(errors.AsStandard(err).Code)
	}
	metrics.EngineCalls.WithLabelValues(op, outcome).Inc()
	metrics.EngineCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	e.obs.RecordEngineCall(ctx, op, outcome, elapsed)
}
