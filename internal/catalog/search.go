package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rotisserie/eris"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

// activeStatus marks listings open for matching in both backends.
const activeStatus = "active"

// SearchIndex retrieves candidate opportunities from Elasticsearch.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

// opportunityDocument is the indexed shape of an opportunity.
type opportunityDocument struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Industry         string                 `json:"industry"`
	Status           string                 `json:"status"`
	InvestmentMin    *float64               `json:"investment_min"`
	InvestmentMax    *float64               `json:"investment_max"`
	BreakEvenMonths  *int                   `json:"break_even_months"`
	SuccessRate      *float64               `json:"success_rate"`
	OwnerInvolvement string                 `json:"owner_involvement"`
	Attributes       map[string]interface{} `json:"attributes"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string              `json:"_id"`
			Source opportunityDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a filtered bool query over active documents: a case-insensitive
// term on industry plus range clauses that keep documents overlapping the
// investment window. It selects the same rows as PostgresStore.ListOpportunities.
func (s *SearchIndex) Search(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, eris.Wrap(err, "search: encode query")
	}

	size := q.Limit
	if size <= 0 {
		size = DefaultLimit
	}
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, eris.Wrapf(err, "search: query %s", s.index)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, eris.Errorf("search: %s returned %s: %s", s.index, res.Status(), bytes.TrimSpace(msg))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, eris.Wrap(err, "search: decode response")
	}

	out := make([]models.OpportunityInput, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		out = append(out, doc.toInput())
	}
	return out, nil
}

// Ping checks the cluster for readiness probes.
func (s *SearchIndex) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "search: ping")
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: ping returned %s", res.Status())
	}
	return nil
}

func buildSearchBody(q models.CatalogQuery) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": activeStatus},
		},
	}

	if q.Industry != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"industry": map[string]interface{}{
					"value":            strings.ToLower(q.Industry),
					"case_insensitive": true,
				},
			},
		})
	}
	if q.InvestmentMin > 0 {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"investment_max": map[string]interface{}{"gte": q.InvestmentMin},
			},
		})
	}
	if q.InvestmentMax > 0 {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"investment_min": map[string]interface{}{"lte": q.InvestmentMax},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
}

func (d opportunityDocument) toInput() models.OpportunityInput {
	opp := models.OpportunityInput{
		ID:               d.ID,
		Name:             d.Name,
		Industry:         d.Industry,
		OwnerInvolvement: d.OwnerInvolvement,
		Attributes:       d.Attributes,
	}
	if d.InvestmentMin != nil {
		opp.TotalInvestment.Min = *d.InvestmentMin
	}
	if d.InvestmentMax != nil {
		opp.TotalInvestment.Max = *d.InvestmentMax
	}
	if d.BreakEvenMonths != nil {
		opp.BreakEvenMonthsEstimate = *d.BreakEvenMonths
	}
	if d.SuccessRate != nil {
		opp.SuccessRate = *d.SuccessRate
	}
	return opp
}
