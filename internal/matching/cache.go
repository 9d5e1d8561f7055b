// internal/matching/cache.go
package matching

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/models"
)

const evaluationKeyPrefix = "match:eval:v1:"

// CachedEngine memoizes evaluations in Redis per LP/deal pair. The key includes
// a fingerprint of both records so edited fixtures never hit a stale entry.
// Simulations are never cached. Redis failures degrade to a pass-through.
type CachedEngine struct {
	next   Engine
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEngine(next Engine, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedEngine {
	return &CachedEngine{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: logger.Component(log, "matching.cache"),
	}
}

// EvaluationKey returns the cache key for an LP/deal pair.
func EvaluationKey(lp models.LP, deal models.Deal) string {
	h := fnv.New64a()
	_ = json.NewEncoder(h).Encode(lp)
	_ = json.NewEncoder(h).Encode(deal)
	return fmt.Sprintf("%s%s:%s:%x", evaluationKeyPrefix, lp.ID, deal.ID, h.Sum64())
}

func (c *CachedEngine) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	key := EvaluationKey(lp, deal)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var resp models.EvaluateResponse
		if jsonErr := json.Unmarshal([]byte(val), &resp); jsonErr == nil {
			metrics.EvaluationCache.WithLabelValues("hit").Inc()
			return &resp, nil
		}
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		metrics.EvaluationCache.WithLabelValues("miss").Inc()
	case stderrors.Is(err, redis.Nil):
		metrics.EvaluationCache.WithLabelValues("miss").Inc()
	default:
		metrics.EvaluationCache.WithLabelValues("error").Inc()
		c.logger.Warn("evaluation cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	resp, err := c.next.Evaluate(ctx, lp, deal)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err == nil {
		err = c.redis.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("evaluation cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return resp, nil
}

func (c *CachedEngine) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	return c.next.Simulate(ctx, lp, params)
}
