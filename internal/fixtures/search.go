// internal/fixtures/search.go
package fixtures

import (
	"context"
	"strings"

	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

// DealQuery filters deals by free text over name and market and an optional exact type.
type DealQuery struct {
	Text  string          `json:"q"`
	Type  models.DealType `json:"type,omitempty"`
	Limit int             `json:"limit,omitempty"`
}

type DealSearcher interface {
	SearchDeals(ctx context.Context, q DealQuery) ([]models.Deal, error)
}

// MemorySearcher scans the catalog in fixture order.
type MemorySearcher struct {
	catalog *Catalog
}

func NewMemorySearcher(c *Catalog) *MemorySearcher {
	return &MemorySearcher{catalog: c}
}

func (s *MemorySearcher) SearchDeals(ctx context.Context, q DealQuery) ([]models.Deal, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := []models.Deal{}
	for _, d := range s.catalog.deals {
		if q.Type != "" && !strings.EqualFold(string(d.Type), string(q.Type)) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(d.Name), text) &&
			!strings.Contains(strings.ToLower(d.Market), text) {
			continue
		}
		out = append(out, d)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// FallbackSearcher answers from Secondary whenever Primary fails.
type FallbackSearcher struct {
	Primary   DealSearcher
	Secondary DealSearcher
	logger    logger.Logger
}

func NewFallbackSearcher(primary, secondary DealSearcher, log logger.Logger) *FallbackSearcher {
	return &FallbackSearcher{Primary: primary, Secondary: secondary, logger: logger.Component(log, "fixtures.search")}
}

func (s *FallbackSearcher) SearchDeals(ctx context.Context, q DealQuery) ([]models.Deal, error) {
	deals, err := s.Primary.SearchDeals(ctx, q)
	if err == nil {
		return deals, nil
	}
	s.logger.Warn("primary deal search failed, falling back", map[string]interface{}{
		"error": err.Error(),
		"query": q.Text,
	})
	return s.Secondary.SearchDeals(ctx, q)
}
