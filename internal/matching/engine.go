// Package matching scores LP/deal fit. The Engine interface is the boundary
// the visualizer, the simulation panel and the BPMN workers call through.
package matching

import (
	"context"

	"capital-match/internal/models"
)

const (
	OpEvaluate = "evaluate"
	OpSimulate = "simulate"
)

// Engine evaluates LP/deal pairs and what-if parameter sets. Implementations
// may be remote and slow; callers must treat both calls as blocking.
type Engine interface {
	Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error)
	Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error)
}
