// internal/workers/matching/simulate-match/handler_test.go
package simulatematch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
	"capital-match/internal/models"
	"capital-match/pkg/registry"
)

type staticCatalog struct {
	c *fixtures.Catalog
}

func (s staticCatalog) Catalog() *fixtures.Catalog { return s.c }

// recordingEngine wraps the scorer and remembers what it was asked.
type recordingEngine struct {
	matching.Engine
	mu     sync.Mutex
	params []models.SimulationParams
	err    error
}

func (r *recordingEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	r.mu.Lock()
	r.params = append(r.params, params)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.Engine.Simulate(ctx, lp, params)
}

func createTestHandler(t *testing.T) (*Handler, *recordingEngine) {
	t.Helper()
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)

	activity, ok := registry.Default().Find(TaskType)
	require.True(t, ok)
	schema, err := activity.InputValidator()
	require.NoError(t, err)

	engine := &recordingEngine{Engine: matching.NewScorer(nil)}
	cfg := LoadConfig()
	cfg.Schema = schema
	return NewHandler(cfg, staticCatalog{c}, engine, logger.NewTestLogger(t)), engine
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		params      models.SimulationParams
		wantParams  models.SimulationParams
		wantClamped bool
	}{
		{
			name:       "within bounds",
			params:     models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 2_000_000},
			wantParams: models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 2_000_000},
		},
		{
			name:        "investment clamped to maximum",
			params:      models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 50_000_000},
			wantParams:  models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 5_000_000},
			wantClamped: true,
		},
		{
			name:        "returns clamped to minimum",
			params:      models.SimulationParams{IRR: 2, EquityMultiple: 0.5, InvestmentSize: 1_000_000},
			wantParams:  models.SimulationParams{IRR: 10, EquityMultiple: 1, InvestmentSize: 1_000_000},
			wantClamped: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, engine := createTestHandler(t)
			out, err := h.Execute(context.Background(), &Input{LPID: "lp-001", Params: tt.params})
			require.NoError(t, err)

			assert.Equal(t, tt.wantParams, out.Params)
			assert.Equal(t, tt.wantClamped, out.Clamped)
			require.Len(t, engine.params, 1)
			assert.Equal(t, tt.wantParams, engine.params[0])
			assert.NotEmpty(t, out.SuggestedOptimizations)
			assert.GreaterOrEqual(t, out.ConfidenceScore, 0.0)
			assert.LessOrEqual(t, out.ConfidenceScore, 100.0)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	h, engine := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{LPID: "lp-404"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLPNotFound, errors.AsStandard(err).Code)
	assert.Empty(t, engine.params)

	engine.err = errors.NewEvaluationUnavailableError(assert.AnError)
	_, err = h.Execute(context.Background(), &Input{LPID: "lp-001", Params: models.SimulationParams{IRR: 15, EquityMultiple: 2, InvestmentSize: 1_000_000}})
	require.Error(t, err)
	assert.True(t, errors.AsStandard(err).Retryable)
}

func TestHandler_ParseInput(t *testing.T) {
	h, _ := createTestHandler(t)

	in, err := h.parseInput([]byte(`{"lpId":"lp-003","params":{"irr":12,"equityMultiple":1.6,"investmentSize":3000000}}`))
	require.NoError(t, err)
	assert.Equal(t, 12.0, in.Params.IRR)

	for _, raw := range []string{
		`{"lpId":"lp-003"}`,
		`{"lpId":"lp-003","params":{"irr":12}}`,
		`{"params":{"irr":12,"equityMultiple":1.6,"investmentSize":3000000}}`,
		`{"lpId":"lp-003","params":{"irr":"high","equityMultiple":1.6,"investmentSize":3000000}}`,
	} {
		_, err := h.parseInput([]byte(raw))
		require.Error(t, err, raw)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandard(err).Code)
	}
}
