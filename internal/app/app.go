// internal/app/app.go
package app

import (
	"context"
	"fmt"

	"capital-match/internal/common/config"
	"capital-match/internal/common/database"
	"capital-match/internal/common/logger"
	"capital-match/internal/fixtures"
)

// LoadCatalog reads LPs, deals, matches and alerts from the configured source.
func LoadCatalog(ctx context.Context, cfg *config.Config, clients *database.Clients, log logger.Logger) (*fixtures.Catalog, error) {
	var src fixtures.Source
	switch cfg.Fixtures.Source {
	case config.FixtureSourceFile:
		src = fixtures.NewFileSource(cfg.Fixtures.Path, log)
	case config.FixtureSourcePostgres:
		if clients == nil || clients.Postgres == nil {
			return nil, fmt.Errorf("fixtures.source is postgres but no postgres connection is open")
		}
		src = fixtures.NewPostgresSource(clients.Postgres.DB, log)
	default:
		src = fixtures.StaticSource{}
	}

	c, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded", map[string]interface{}{
		"source":  cfg.Fixtures.Source,
		"lps":     len(c.LPs()),
		"deals":   len(c.Deals()),
		"matches": len(c.Matches()),
		"alerts":  len(c.Alerts()),
	})
	return c, nil
}

// NewSearcher indexes the catalog into Elasticsearch when it is available and
// falls back to in-memory search on any query failure.
func NewSearcher(ctx context.Context, cfg *config.Config, clients *database.Clients, c *fixtures.Catalog, log logger.Logger) fixtures.DealSearcher {
	memory := fixtures.NewMemorySearcher(c)
	if clients == nil || clients.Elasticsearch == nil {
		return memory
	}

	es := fixtures.NewElasticSearcher(clients.Elasticsearch.Client, cfg.Database.Elasticsearch.DealIndex, c, log)
	if err := es.IndexDeals(ctx); err != nil {
		log.Warn("deal indexing failed, using in-memory search", map[string]interface{}{"error": err.Error()})
		return memory
	}
	return fixtures.NewFallbackSearcher(es, memory, log)
}

// Pinger is satisfied by the Zeebe client and every database client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports database backends plus the workflow gateway when one is connected.
type Health struct {
	Clients *database.Clients
	Zeebe   Pinger
}

func (h Health) Check(ctx context.Context) map[string]string {
	status := map[string]string{}
	if h.Clients != nil {
		status = h.Clients.Check(ctx)
	}
	if h.Zeebe != nil {
		if err := h.Zeebe.Ping(ctx); err != nil {
			status["zeebe"] = err.Error()
		} else {
			status["zeebe"] = "ok"
		}
	}
	return status
}
