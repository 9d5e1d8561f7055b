package simulation

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
	"capital-match/internal/models"
)

// recordingEngine captures submitted parameters and replays a scripted outcome.
type recordingEngine struct {
	mu     sync.Mutex
	params []models.SimulationParams
	resp   *models.SimulateResponse
	err    error
	block  chan struct{}
}

func (r *recordingEngine) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	return nil, stderrors.New("not used")
}

func (r *recordingEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	r.mu.Lock()
	r.params = append(r.params, params)
	block := r.block
	r.mu.Unlock()
	if block != nil {
		<-block
	}
	return r.resp, r.err
}

func sampleDeal(t *testing.T, id string) *models.Deal {
	t.Helper()
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)
	d, err := c.Deal(id)
	require.NoError(t, err)
	return &d
}

func sampleLP(t *testing.T) models.LP {
	t.Helper()
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)
	lp, err := c.LP("lp-001")
	require.NoError(t, err)
	return lp
}

func newState(t *testing.T) *State {
	return New(DefaultBounds(), logger.NewTestLogger(t), nil)
}

func TestBounds_SnapAndClamp(t *testing.T) {
	b := DefaultBounds()
	tests := []struct {
		name   string
		bounds Bounds
		in     float64
		want   float64
	}{
		{"irr on grid", b.IRR, 25.0, 25.0},
		{"irr rounds to half", b.IRR, 18.3, 18.5},
		{"irr below range", b.IRR, 4, 10},
		{"em rounds to tenth", b.EquityMultiple, 2.14, 2.1},
		{"em above range", b.EquityMultiple, 9, 3.0},
		{"size clamped", b.InvestmentSize, 50_000_000, 5_000_000},
		{"size snapped", b.InvestmentSize, 1_234_567, 1_200_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.bounds.Snap(tt.in), 1e-9)
		})
	}
	assert.Equal(t, 18.3, b.IRR.Clamp(18.3))
}

func TestParseParam(t *testing.T) {
	p, err := ParseParam("equityMultiple")
	require.NoError(t, err)
	assert.Equal(t, ParamEquityMultiple, p)

	_, err = ParseParam("holdPeriod")
	assert.Equal(t, errors.ErrCodeInvalidSimulationParam, errors.AsStandard(err).Code)
}

func TestState_ToggleReseedsFromDeal(t *testing.T) {
	s := newState(t)
	deal := sampleDeal(t, "deal-001")
	require.Equal(t, 18.0, deal.FinancialMetrics.ProjectedIRR)

	active, err := s.Toggle(deal)
	require.NoError(t, err)
	require.True(t, active)

	params, _ := s.Params()
	assert.Equal(t, 18.0, params.IRR)
	assert.Equal(t, deal.FinancialMetrics.ProjectedEM, params.EquityMultiple)
	assert.Equal(t, deal.CapitalRequirements.MinInvestment, params.InvestmentSize)

	params, err = s.SetParam(ParamIRR, 25.0)
	require.NoError(t, err)
	assert.Equal(t, 25.0, params.IRR)

	active, err = s.Toggle(deal)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Nil(t, s.Snapshot().Params)

	_, err = s.Toggle(deal)
	require.NoError(t, err)
	params, _ = s.Params()
	assert.Equal(t, 18.0, params.IRR)
}

func TestState_SeedIsClampedNotSnapped(t *testing.T) {
	s := newState(t)
	deal := &models.Deal{ID: "d", FinancialMetrics: models.FinancialMetrics{ProjectedIRR: 17.3, ProjectedEM: 3.4}}
	deal.CapitalRequirements.MinInvestment = 250_000

	_, err := s.Toggle(deal)
	require.NoError(t, err)

	params, _ := s.Params()
	assert.Equal(t, 17.3, params.IRR)
	assert.Equal(t, 3.0, params.EquityMultiple)
	assert.Equal(t, 500_000.0, params.InvestmentSize)
}

func TestState_EditsRequireActiveMode(t *testing.T) {
	s := newState(t)

	_, err := s.SetParam(ParamIRR, 20)
	assert.ErrorIs(t, err, errors.ErrSimulationInactive)

	_, err = s.Run(context.Background(), &recordingEngine{}, sampleLP(t))
	assert.ErrorIs(t, err, errors.ErrSimulationInactive)

	_, err = s.Toggle(nil)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandard(err).Code)
}

func TestState_RunSubmitsClampedParams(t *testing.T) {
	s := newState(t)
	engine := &recordingEngine{resp: &models.SimulateResponse{ConfidenceScore: 82, SuggestedOptimizations: []string{"x"}}}

	_, err := s.Toggle(sampleDeal(t, "deal-001"))
	require.NoError(t, err)
	_, err = s.SetParam(ParamInvestmentSize, 50_000_000)
	require.NoError(t, err)

	resp, err := s.Run(context.Background(), engine, sampleLP(t))
	require.NoError(t, err)
	assert.Equal(t, 82.0, resp.ConfidenceScore)

	require.Len(t, engine.params, 1)
	assert.Equal(t, 5_000_000.0, engine.params[0].InvestmentSize)

	snap := s.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, 82.0, snap.Result.ConfidenceScore)
	assert.False(t, snap.Busy)
}

func TestState_RunWithScorer(t *testing.T) {
	s := newState(t)
	_, err := s.Toggle(sampleDeal(t, "deal-001"))
	require.NoError(t, err)

	resp, err := s.Run(context.Background(), matching.NewScorer(logger.NewTestLogger(t)), sampleLP(t))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, resp.ConfidenceScore, 100.0)
	assert.NotEmpty(t, resp.SuggestedOptimizations)
}

func TestState_FailedRunKeepsPreviousResult(t *testing.T) {
	s := newState(t)
	engine := &recordingEngine{resp: &models.SimulateResponse{ConfidenceScore: 75}}
	_, err := s.Toggle(sampleDeal(t, "deal-001"))
	require.NoError(t, err)

	_, err = s.Run(context.Background(), engine, sampleLP(t))
	require.NoError(t, err)

	engine.resp, engine.err = nil, errors.NewEvaluationUnavailableError(stderrors.New("down"))
	_, err = s.Run(context.Background(), engine, sampleLP(t))
	assert.ErrorIs(t, err, errors.ErrEvaluationUnavailable)

	snap := s.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, 75.0, snap.Result.ConfidenceScore)
}

func TestState_RunOvertakenByDeactivation(t *testing.T) {
	s := newState(t)
	engine := &recordingEngine{
		resp:  &models.SimulateResponse{ConfidenceScore: 99},
		block: make(chan struct{}),
	}
	_, err := s.Toggle(sampleDeal(t, "deal-001"))
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), engine, sampleLP(t))
		errc <- err
	}()

	require.Eventually(t, func() bool { return s.Snapshot().Busy }, time.Second, 5*time.Millisecond)
	s.Deactivate()
	close(engine.block)

	assert.ErrorIs(t, <-errc, errors.ErrSimulationBusy)
	snap := s.Snapshot()
	assert.False(t, snap.Active)
	assert.Nil(t, snap.Result)
}
