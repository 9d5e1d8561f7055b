package matching

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

type countingEngine struct {
	evaluations atomic.Int32
	simulations atomic.Int32
	err         error
}

func (c *countingEngine) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	c.evaluations.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &models.EvaluateResponse{
		Factors:             []models.MatchFactor{{Factor: FactorIRR, Contribution: 30, Strength: models.StrengthStrong, Score: 100}},
		RecommendedApproach: "Lead with returns",
		ConfidenceScore:     91,
	}, nil
}

func (c *countingEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	c.simulations.Add(1)
	return &models.SimulateResponse{ConfidenceScore: 70}, nil
}

func TestCachedEngine_HitAfterMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	inner := &countingEngine{}
	engine := NewCachedEngine(inner, rdb, 5*time.Minute, logger.NewTestLogger(t))
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")

	first, err := engine.Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)
	second, err := engine.Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.evaluations.Load())
	assert.Equal(t, first, second)

	key := EvaluationKey(lp, deal)
	assert.True(t, mr.Exists(key))
	assert.InDelta(t, (5 * time.Minute).Seconds(), mr.TTL(key).Seconds(), 1)

	mr.FastForward(6 * time.Minute)
	_, err = engine.Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.evaluations.Load())
}

func TestCachedEngine_KeyChangesWithRecord(t *testing.T) {
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")
	before := EvaluationKey(lp, deal)

	deal.FinancialMetrics.ProjectedIRR += 1
	assert.NotEqual(t, before, EvaluationKey(lp, deal))
	assert.Contains(t, before, "match:eval:v1:lp-001:deal-001:")
}

func TestCachedEngine_ErrorsAreNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	inner := &countingEngine{err: errors.NewEvaluationUnavailableError(stderrors.New("down"))}
	engine := NewCachedEngine(inner, rdb, time.Minute, logger.NewTestLogger(t))
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")

	_, err := engine.Evaluate(context.Background(), lp, deal)
	assert.ErrorIs(t, err, errors.ErrEvaluationUnavailable)
	assert.False(t, mr.Exists(EvaluationKey(lp, deal)))
}

func TestCachedEngine_RedisFailureFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")
	key := EvaluationKey(lp, deal)

	mock.ExpectGet(key).SetErr(stderrors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(stderrors.New("connection refused"))

	inner := &countingEngine{}
	engine := NewCachedEngine(inner, db, time.Minute, logger.NewTestLogger(t))

	resp, err := engine.Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)
	assert.Equal(t, 91.0, resp.ConfidenceScore)
	assert.Equal(t, int32(1), inner.evaluations.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedEngine_CorruptEntryIsReplaced(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lp, deal := lpAndDeal(t, "lp-001", "deal-001")
	key := EvaluationKey(lp, deal)

	mock.ExpectGet(key).SetVal("{not json")
	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetVal("OK")

	inner := &countingEngine{}
	engine := NewCachedEngine(inner, db, time.Minute, logger.NewTestLogger(t))

	_, err := engine.Evaluate(context.Background(), lp, deal)
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.evaluations.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedEngine_SimulateBypassesCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingEngine{}
	engine := NewCachedEngine(inner, db, time.Minute, logger.NewTestLogger(t))
	lp, _ := lpAndDeal(t, "lp-001", "deal-001")

	_, err := engine.Simulate(context.Background(), lp, models.SimulationParams{IRR: 18, EquityMultiple: 2, InvestmentSize: 1_000_000})
	require.NoError(t, err)
	_, err = engine.Simulate(context.Background(), lp, models.SimulationParams{IRR: 18, EquityMultiple: 2, InvestmentSize: 1_000_000})
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.simulations.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}
