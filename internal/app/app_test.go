package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/akkash/bizsearch-new-sub002/internal/common/config"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
	buildroiscenarios "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/build-roi-scenarios"
	rankopportunities "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/rank-opportunities"
)

func writeConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func testOptions() Options {
	return Options{Registry: prometheus.NewRegistry(), ConnectAttempts: 1, ConnectDelay: time.Millisecond}
}

func TestNew_InlineOnly(t *testing.T) {
	cfg := writeConfig(t, `
app:
  name: fit-test
engine:
  top_n: 3
projection:
  horizon_years: 4
`)

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Repository)
	assert.ElementsMatch(t,
		[]string{"calculate-match-score", "rank-opportunities", "build-roi-scenarios"},
		a.Registry.TaskTypes())

	set, err := a.Scenarios.Execute(context.Background(), &buildroiscenarios.Input{
		InitialInvestment: 500000,
		IndustryKey:       "services",
		LocationTier:      "tier3",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, set.Params.HorizonYears)

	_, err = a.Rank.Execute(context.Background(), &rankopportunities.Input{
		ProfileID: "inv-1",
		Catalog:   []models.OpportunityInput{},
	})
	require.Error(t, err, "profile lookups are disabled without postgres")
}

func TestNew_HTTPServer(t *testing.T) {
	cfg := writeConfig(t, "app:\n  name: fit-test\n")
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.HTTPServer().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{}}`, w.Body.String())
}

func TestNew_BenchmarksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
industries:
  laundromat:
    average_revenue: 400000
    gross_margin: 0.6
    operating_margin: 0.2
    break_even_months: 30
locations:
  tier2:
    revenue: 1.0
    cost: 1.0
`), 0o600))

	cfg := writeConfig(t, "app:\n  name: fit-test\nprojection:\n  benchmarks_path: "+path+"\n")
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"laundromat"}, a.Builder.Benchmarks().IndustryKeys())
}

func TestNew_Failures(t *testing.T) {
	t.Run("missing benchmarks file", func(t *testing.T) {
		cfg := writeConfig(t, "projection:\n  benchmarks_path: /nonexistent/benchmarks.yaml\n")
		_, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
		assert.Error(t, err)
	})

	t.Run("postgres unreachable", func(t *testing.T) {
		cfg := writeConfig(t, `
database:
  postgres:
    host: 127.0.0.1
    port: 1
    database: fit
    user: fit
`)
		_, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PostgreSQL connection failed after 1 attempts")
	})
}

func TestWorkerTaskTypes_MatchRegistry(t *testing.T) {
	cfg := writeConfig(t, "app:\n  name: fit-test\n")
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), testOptions())
	require.NoError(t, err)
	defer a.Close()

	assert.ElementsMatch(t, a.Registry.TaskTypes(), WorkerTaskTypes())
}
