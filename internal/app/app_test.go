package app

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/config"
	"capital-match/internal/common/database"
	"capital-match/internal/common/logger"
	"capital-match/internal/dashboard"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
	"capital-match/pkg/registry"
)

const fixtureDocument = `{
  "lps": [
    {"id": "lp-x", "name": "Xylem Partners", "tier": "Tier 2", "commitmentSize": 2000000,
     "investmentParameters": {"targetIRR": 14, "targetEM": 1.7, "minInvestment": 500000}}
  ],
  "deals": [
    {"id": "deal-x", "name": "Xenia Flats", "type": "Core-Plus", "market": "Denver", "matchScore": 71,
     "financialMetrics": {"projectedIRR": 13, "projectedEM": 1.7},
     "capitalRequirements": {"minInvestment": 250000}}
  ],
  "matches": [],
  "capitalRaise": {"raised": 5, "target": 50}
}`

func TestLoadCatalog(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("static", func(t *testing.T) {
		cfg := &config.Config{Fixtures: config.FixturesConfig{Source: config.FixtureSourceStatic}}
		c, err := LoadCatalog(context.Background(), cfg, nil, log)
		require.NoError(t, err)
		assert.Len(t, c.LPs(), 6)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixtures.json")
		require.NoError(t, os.WriteFile(path, []byte(fixtureDocument), 0o600))

		cfg := &config.Config{Fixtures: config.FixturesConfig{Source: config.FixtureSourceFile, Path: path}}
		c, err := LoadCatalog(context.Background(), cfg, nil, log)
		require.NoError(t, err)
		deal, err := c.Deal("deal-x")
		require.NoError(t, err)
		assert.Equal(t, "Xenia Flats", deal.Name)
	})

	t.Run("postgres without connection", func(t *testing.T) {
		cfg := &config.Config{Fixtures: config.FixturesConfig{Source: config.FixtureSourcePostgres}}
		_, err := LoadCatalog(context.Background(), cfg, &database.Clients{}, log)
		require.Error(t, err)
	})
}

func TestNewSearcher_WithoutElasticsearch(t *testing.T) {
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)

	s := NewSearcher(context.Background(), &config.Config{}, &database.Clients{}, c, logger.NewNoOpLogger())
	_, ok := s.(*fixtures.MemorySearcher)
	assert.True(t, ok)

	deals, err := s.SearchDeals(context.Background(), fixtures.DealQuery{Text: "chicago"})
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth_Check(t *testing.T) {
	assert.Empty(t, Health{}.Check(context.Background()))

	h := Health{Clients: &database.Clients{}, Zeebe: stubPinger{}}
	assert.Equal(t, map[string]string{"zeebe": "ok"}, h.Check(context.Background()))

	h.Zeebe = stubPinger{err: stderrors.New("gateway unreachable")}
	assert.Equal(t, "gateway unreachable", h.Check(context.Background())["zeebe"])
}

func TestHandlers(t *testing.T) {
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)
	deps := WorkerDeps{
		Catalog: dashboard.New(c),
		Engine:  matching.NewScorer(nil),
		Logger:  logger.NewTestLogger(t),
	}

	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		"evaluate-match": {Enabled: true, Timeout: 5000},
	}}
	handlers, err := Handlers(cfg, registry.Default(), deps)
	require.NoError(t, err)
	assert.Len(t, handlers, 3)
	for _, taskType := range []string{"evaluate-match", "simulate-match", "send-alert-notification"} {
		assert.Contains(t, handlers, taskType)
	}

	_, err = Handlers(cfg, &registry.ActivityRegistry{}, deps)
	require.Error(t, err)
}
