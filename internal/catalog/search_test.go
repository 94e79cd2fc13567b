package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

func newFakeCluster(t *testing.T, status int, body string, capture *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, capture)
			}
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchIndex_Search(t *testing.T) {
	body := `{
		"hits": {"hits": [
			{"_id": "opp-1", "_source": {"id": "opp-1", "name": "Brew House", "industry": "Food & Beverage",
				"investment_min": 1500000, "investment_max": 2500000, "break_even_months": 22,
				"success_rate": 78, "owner_involvement": "hands-on", "attributes": {"units": 12}}},
			{"_id": "opp-2", "_source": {"name": "No Id", "industry": "Retail"}}
		]}
	}`
	var sent map[string]interface{}
	client := newFakeCluster(t, http.StatusOK, body, &sent)

	opps, err := NewSearchIndex(client, "opportunities").Search(context.Background(), models.CatalogQuery{
		Industry:      "Food & Beverage",
		InvestmentMin: 1000000,
		InvestmentMax: 3000000,
		Limit:         20,
	})

	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, "Brew House", opps[0].Name)
	assert.Equal(t, 1500000.0, opps[0].TotalInvestment.Min)
	assert.Equal(t, 2500000.0, opps[0].TotalInvestment.Max)
	assert.Equal(t, 22, opps[0].BreakEvenMonthsEstimate)
	assert.Equal(t, 78.0, opps[0].SuccessRate)
	assert.Equal(t, "hands-on", opps[0].OwnerInvolvement)

	assert.Equal(t, "opp-2", opps[1].ID)
	assert.Nil(t, opps[1].TotalInvestment.Min)
	assert.Nil(t, opps[1].BreakEvenMonthsEstimate)

	filters := sent["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Len(t, filters, 4)
}

func TestSearchIndex_Search_ClusterError(t *testing.T) {
	client := newFakeCluster(t, http.StatusServiceUnavailable, `{"error":"no shards"}`, nil)

	_, err := NewSearchIndex(client, "opportunities").Search(context.Background(), models.CatalogQuery{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestBuildSearchBody(t *testing.T) {
	tests := []struct {
		name        string
		query       models.CatalogQuery
		wantFilters int
		contains    string
	}{
		{name: "active only", query: models.CatalogQuery{}, wantFilters: 1, contains: `"term":{"status":"active"}`},
		{name: "industry term", query: models.CatalogQuery{Industry: "Retail"}, wantFilters: 2, contains: `"term":{"industry":{"case_insensitive":true,"value":"retail"}}`},
		{name: "lower bound", query: models.CatalogQuery{InvestmentMin: 100}, wantFilters: 2, contains: `"investment_max":{"gte":100}`},
		{name: "upper bound", query: models.CatalogQuery{InvestmentMax: 900}, wantFilters: 2, contains: `"investment_min":{"lte":900}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := buildSearchBody(tt.query)
			filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
			assert.Len(t, filters, tt.wantFilters)

			raw, err := json.Marshal(body)
			require.NoError(t, err)
			assert.True(t, strings.Contains(string(raw), `"sort":[{"id":"asc"}]`))
			if tt.contains != "" {
				assert.Contains(t, string(raw), tt.contains)
			}
		})
	}
}

// Search and the Postgres store must select the same candidates for a query.
func TestSearchIndex_Search_MatchesStoreFilters(t *testing.T) {
	var sent map[string]interface{}
	client := newFakeCluster(t, http.StatusOK, `{"hits":{"hits":[]}}`, &sent)

	_, err := NewSearchIndex(client, "opportunities").Search(context.Background(), models.CatalogQuery{Industry: "Food-Beverage"})
	require.NoError(t, err)

	raw, err := json.Marshal(sent["query"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `{"term":{"status":"active"}}`)
	assert.Contains(t, string(raw), `"industry":{"case_insensitive":true,"value":"food-beverage"}`)

	sql, args := buildOpportunityQuery(models.CatalogQuery{Industry: "Food-Beverage"})
	assert.Contains(t, sql, "status = 'active'")
	assert.Contains(t, sql, "LOWER(industry) = LOWER($1)")
	assert.Equal(t, []interface{}{"Food-Beverage"}, args)
}
