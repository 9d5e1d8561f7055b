package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/logger"
	"capital-match/internal/fixtures"
	"capital-match/internal/models"
)

func sampleCatalog(t *testing.T) *fixtures.Catalog {
	t.Helper()
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)
	return c
}

func lpAndDeal(t *testing.T, lpID, dealID string) (models.LP, models.Deal) {
	t.Helper()
	c := sampleCatalog(t)
	lp, err := c.LP(lpID)
	require.NoError(t, err)
	deal, err := c.Deal(dealID)
	require.NoError(t, err)
	return lp, deal
}

func TestScorer_Evaluate(t *testing.T) {
	tests := []struct {
		name           string
		lpID, dealID   string
		wantConfidence float64
		wantStrengths  []models.Strength
	}{
		{
			name: "perfect fit", lpID: "lp-001", dealID: "deal-001",
			wantConfidence: 100,
			wantStrengths:  []models.Strength{"strong", "strong", "strong", "strong", "strong"},
		},
		{
			name: "financial fit, off-strategy", lpID: "lp-006", dealID: "deal-003",
			wantConfidence: 84,
			wantStrengths:  []models.Strength{"strong", "strong", "strong", "weak", "weak"},
		},
		{
			name: "returns too low", lpID: "lp-004", dealID: "deal-004",
			wantConfidence: 40,
			wantStrengths:  []models.Strength{"weak", "weak", "strong", "weak", "weak"},
		},
	}
	s := NewScorer(logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp, deal := lpAndDeal(t, tt.lpID, tt.dealID)
			resp, err := s.Evaluate(context.Background(), lp, deal)
			require.NoError(t, err)

			assert.Equal(t, tt.wantConfidence, resp.ConfidenceScore)
			require.Len(t, resp.Factors, 5)

			var sum float64
			for i, f := range resp.Factors {
				assert.Equal(t, tt.wantStrengths[i], f.Strength, f.Factor)
				sum += f.Contribution
			}
			assert.InDelta(t, resp.ConfidenceScore, sum, 0.01)
			assert.NotEmpty(t, resp.KeyTalkingPoints)
			assert.NotEmpty(t, resp.RecommendedApproach)
		})
	}
}

func TestScorer_EvaluateFactorOrder(t *testing.T) {
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")
	resp, err := NewScorer(nil).Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)

	names := make([]string, 0, len(resp.Factors))
	for _, f := range resp.Factors {
		names = append(names, f.Factor)
	}
	assert.Equal(t, []string{FactorIRR, FactorEM, FactorInvestment, FactorDealType, FactorMarket}, names)
	assert.Equal(t, 30.0, resp.Factors[0].Contribution)
	assert.Contains(t, resp.KeyTalkingPoints[0], "18.0% IRR")
}

func TestScorer_Simulate(t *testing.T) {
	lp, _ := lpAndDeal(t, "lp-001", "deal-001")
	s := NewScorer(logger.NewNoOpLogger())

	t.Run("all criteria met", func(t *testing.T) {
		resp, err := s.Simulate(context.Background(), lp, models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 5_000_000})
		require.NoError(t, err)
		assert.Equal(t, 100.0, resp.ConfidenceScore)
		assert.Len(t, resp.SuggestedOptimizations, 1)
	})

	t.Run("short on multiple and size", func(t *testing.T) {
		resp, err := s.Simulate(context.Background(), lp, models.SimulationParams{IRR: 14.5, EquityMultiple: 1.5, InvestmentSize: 500_000})
		require.NoError(t, err)
		assert.Equal(t, 57.3, resp.ConfidenceScore)
		assert.Equal(t, []string{
			"Increase projected IRR toward the LP's 15.0% target",
			"Improve the equity multiple toward 1.8x",
			"Raise the allocation to at least $2.0M",
		}, resp.SuggestedOptimizations)
	})

	t.Run("oversized allocation", func(t *testing.T) {
		resp, err := s.Simulate(context.Background(), lp, models.SimulationParams{IRR: 18, EquityMultiple: 2.1, InvestmentSize: 12_000_000})
		require.NoError(t, err)
		assert.Equal(t, 94.7, resp.ConfidenceScore)
		assert.Equal(t, []string{"Reduce the allocation to at most $10.0M"}, resp.SuggestedOptimizations)
	})
}

func TestScorer_CancelledContext(t *testing.T) {
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(nil).Evaluate(ctx, lp, deal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitTiers(t *testing.T) {
	assert.Equal(t, 50.0, returnFit(0, 10, 1, 3, 5))
	assert.Equal(t, 80.0, returnFit(15, 14.5, 1, 3, 5))
	assert.Equal(t, 60.0, returnFit(15, 12.5, 1, 3, 5))
	assert.Equal(t, 40.0, returnFit(15, 10.5, 1, 3, 5))

	assert.Equal(t, 50.0, sizeFit(0, 1, 2))
	assert.Equal(t, 100.0, sizeFit(5, 1, 0))
	assert.Equal(t, 60.0, sizeFit(850, 1000, 2000))
	assert.Equal(t, 40.0, sizeFit(500, 1000, 2000))

	assert.Equal(t, 50.0, preferenceFit(nil, "Core", 40))
	assert.Equal(t, 100.0, preferenceFit([]string{"core"}, "Core", 40))
}
