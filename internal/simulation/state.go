// internal/simulation/state.go
package simulation

import (
	"context"
	"sync"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/observability"
	"capital-match/internal/matching"
	"capital-match/internal/models"
)

// State is the Inactive/Active machine behind the what-if panel. Parameters and
// results only exist while Active. Edits never call the engine; Run does.
type State struct {
	bounds ParamBounds
	logger logger.Logger
	obs    *observability.Observability

	mu     sync.Mutex
	active bool
	params models.SimulationParams
	result *models.SimulateResponse
	busy   int
	seq    uint64
}

func New(bounds ParamBounds, log logger.Logger, obs *observability.Observability) *State {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &State{
		bounds: bounds,
		logger: logger.Component(log, "simulation"),
		obs:    obs,
	}
}

// Toggle flips the mode. Activation seeds the parameters from the deal's
// actual metrics, clamped to the slider ranges; deactivation discards
// parameters and results.
func (s *State) Toggle(deal *models.Deal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.deactivateLocked()
		return false, nil
	}
	if deal == nil {
		return false, errors.NewInvalidInputError("a deal must be selected to simulate")
	}
	s.active = true
	s.params = s.bounds.Clamp(models.SimulationParams{
		IRR:            deal.FinancialMetrics.ProjectedIRR,
		EquityMultiple: deal.FinancialMetrics.ProjectedEM,
		InvestmentSize: deal.CapitalRequirements.MinInvestment,
	})
	s.result = nil
	return true, nil
}

// Deactivate leaves simulation mode if it is active.
func (s *State) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.deactivateLocked()
	}
}

func (s *State) deactivateLocked() {
	s.active = false
	s.params = models.SimulationParams{}
	s.result = nil
	// in-flight runs must not repopulate a discarded panel
	s.seq++
}

// SetParam clamps and snaps value to the slider grid and stores it.
func (s *State) SetParam(param Param, value float64) (models.SimulationParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return models.SimulationParams{}, errors.NewSimulationInactiveError()
	}
	v := s.bounds.For(param).Snap(value)
	switch param {
	case ParamIRR:
		s.params.IRR = v
	case ParamEquityMultiple:
		s.params.EquityMultiple = v
	case ParamInvestmentSize:
		s.params.InvestmentSize = v
	default:
		return models.SimulationParams{}, errors.NewInvalidSimulationParamError(string(param))
	}
	return s.params, nil
}

// Params returns the current parameters and whether simulation is active.
func (s *State) Params() (models.SimulationParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params, s.active
}

// Run submits the current parameters to the engine. Previous results stay in
// place until the response arrives. A run overtaken by a newer run or by
// deactivation returns SIMULATION_BUSY and changes nothing; a failed run
// leaves the previous results intact.
func (s *State) Run(ctx context.Context, engine matching.Engine, lp models.LP) (*models.SimulateResponse, error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil, errors.NewSimulationInactiveError()
	}
	s.seq++
	token := s.seq
	params := s.bounds.Clamp(s.params)
	s.busy++
	s.mu.Unlock()

	resp, err := engine.Simulate(ctx, lp, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy--

	if token != s.seq || !s.active {
		metrics.StaleResponsesDropped.WithLabelValues(matching.OpSimulate).Inc()
		s.obs.RecordStaleResponse(ctx, matching.OpSimulate)
		return nil, errors.NewSimulationBusyError()
	}
	if err != nil {
		s.logger.Warn("simulation run failed, keeping previous results", map[string]interface{}{
			"lpId":  lp.ID,
			"error": err.Error(),
		})
		return nil, err
	}

	s.result = resp
	out := *resp
	return &out, nil
}

// Snapshot is the panel as rendered.
type Snapshot struct {
	Active bool                     `json:"active"`
	Busy   bool                     `json:"busy"`
	Params *models.SimulationParams `json:"params,omitempty"`
	Bounds *ParamBounds             `json:"bounds,omitempty"`
	Result *models.SimulateResponse `json:"result,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Active: s.active, Busy: s.busy > 0}
	if !s.active {
		return snap
	}
	params := s.params
	bounds := s.bounds
	snap.Params = &params
	snap.Bounds = &bounds
	if s.result != nil {
		res := *s.result
		res.SuggestedOptimizations = append([]string(nil), s.result.SuggestedOptimizations...)
		snap.Result = &res
	}
	return snap
}
