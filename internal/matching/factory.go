// internal/matching/factory.go
package matching

import (
	"time"

	"github.com/redis/go-redis/v9"

	"capital-match/internal/common/config"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/observability"
)

// Build assembles the configured engine: local or remote, wrapped in the Redis
// cache when rdb is non-nil and a TTL is set, and always instrumented.
func Build(cfg config.MatchingConfig, rdb redis.Cmdable, obs *observability.Observability, log logger.Logger) Engine {
	var engine Engine
	switch cfg.Engine {
	case config.EngineRemote:
		engine = NewRemoteEngine(cfg.BaseURL, cfg.APIKey, config.GetDuration(cfg.Timeout), log)
	default:
		engine = NewScorer(log)
	}

	if rdb != nil && cfg.CacheTTL > 0 {
		engine = NewCachedEngine(engine, rdb, time.Duration(cfg.CacheTTL)*time.Second, log)
	}
	return NewInstrumentedEngine(engine, obs)
}
