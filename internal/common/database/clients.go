// internal/common/database/clients.go
package database

import (
	"context"
	"fmt"
	"time"

	"capital-match/internal/common/config"
	"capital-match/internal/common/logger"
)

// Pinger is satisfied by every backend client in this package.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Clients holds the optional backends. A nil field means the backend is not configured.
type Clients struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Open connects to every configured backend. Postgres is mandatory only when
// fixtures are loaded from it; Redis and Elasticsearch failures degrade to nil.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Clients, error) {
	c := &Clients{}

	if cfg.Database.Postgres.Enabled() {
		pg, err := NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		if err := retryPing(ctx, pg, 3); err != nil {
			_ = pg.Close()
			if cfg.Fixtures.Source == config.FixtureSourcePostgres {
				return nil, fmt.Errorf("postgres unavailable: %w", err)
			}
			log.Warn("postgres unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		} else {
			c.Postgres = pg
			log.Info("connected to postgres", nil)
		}
	}

	if cfg.Database.Redis.Enabled() {
		rc := NewRedis(cfg.Database.Redis)
		if err := retryPing(ctx, rc, 3); err != nil {
			_ = rc.Close()
			log.Warn("redis unavailable, evaluation cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.Redis = rc
			log.Info("connected to redis", nil)
		}
	}

	if cfg.Database.Elasticsearch.Enabled() {
		es, err := NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = retryPing(ctx, es, 3)
		}
		if err != nil {
			log.Warn("elasticsearch unavailable, using in-memory deal search", map[string]interface{}{"error": err.Error()})
		} else {
			c.Elasticsearch = es
			log.Info("connected to elasticsearch", nil)
		}
	}

	return c, nil
}

func retryPing(ctx context.Context, p Pinger, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = p.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
		}
	}
	return err
}

type backend interface {
	Pinger
	Name() string
}

func (c *Clients) open() []backend {
	var out []backend
	if c.Postgres != nil {
		out = append(out, c.Postgres)
	}
	if c.Redis != nil {
		out = append(out, c.Redis)
	}
	if c.Elasticsearch != nil {
		out = append(out, c.Elasticsearch)
	}
	return out
}

// Check pings every open backend and reports "ok" or the error text per backend.
func (c *Clients) Check(ctx context.Context) map[string]string {
	status := map[string]string{}
	for _, b := range c.open() {
		if err := b.Ping(ctx); err != nil {
			status[b.Name()] = err.Error()
			continue
		}
		status[b.Name()] = "ok"
	}
	return status
}

func (c *Clients) Close() {
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
