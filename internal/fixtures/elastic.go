// internal/fixtures/elastic.go
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

const defaultSearchSize = 20

// ElasticSearcher indexes catalog deals and answers deal queries from Elasticsearch.
// Hits are mapped back to catalog deals so results never diverge from fixtures.
type ElasticSearcher struct {
	client  *elasticsearch.Client
	index   string
	catalog *Catalog
	logger  logger.Logger
}

func NewElasticSearcher(client *elasticsearch.Client, index string, c *Catalog, log logger.Logger) *ElasticSearcher {
	return &ElasticSearcher{
		client:  client,
		index:   index,
		catalog: c,
		logger:  logger.Component(log, "fixtures.elastic"),
	}
}

type dealDocument struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Market       string  `json:"market"`
	Stage        string  `json:"stage,omitempty"`
	MatchScore   float64 `json:"match_score"`
	ProjectedIRR float64 `json:"projected_irr"`
}

// IndexDeals bulk-indexes every catalog deal keyed by deal ID.
func (s *ElasticSearcher) IndexDeals(ctx context.Context) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range s.catalog.deals {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": s.index, "_id": d.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(dealDocument{
			Name:         d.Name,
			Type:         string(d.Type),
			Market:       d.Market,
			Stage:        d.Stage,
			MatchScore:   d.MatchScore,
			ProjectedIRR: d.FinancialMetrics.ProjectedIRR,
		}); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("bulk index: %s", res.Status()))
	}

	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	if bulk.Errors {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("bulk index reported item errors"))
	}

	s.logger.Info("deals indexed", map[string]interface{}{"index": s.index, "count": len(s.catalog.deals)})
	return nil
}

func buildDealQuery(q DealQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^3", "market^2", "stage"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}
	if q.Type != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"type.keyword": string(q.Type)},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"match_score": map[string]interface{}{"order": "desc"}},
		},
	}
}

func (s *ElasticSearcher) SearchDeals(ctx context.Context, q DealQuery) ([]models.Deal, error) {
	body, err := json.Marshal(buildDealQuery(q))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}
	size := q.Limit
	if size <= 0 {
		size = defaultSearchSize
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.NewIndexNotFoundError(s.index)
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search: %s", res.Status()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	out := make([]models.Deal, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		d, err := s.catalog.Deal(h.ID)
		if err != nil {
			s.logger.Warn("search hit not in catalog", map[string]interface{}{"dealId": h.ID})
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
