package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
	"github.com/akkash/bizsearch-new-sub002/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

// resetFlags restores every flag to its default; cobra keeps values
// between Execute calls on the package-level commands.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var data []byte
	if s, ok := v.(string); ok {
		data = []byte(s)
	} else {
		var err error
		data, err = json.Marshal(v)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func testProfile(id string) models.InvestorProfileInput {
	return models.InvestorProfileInput{
		ID:                        id,
		Budget:                    &models.RangeInput{Min: 200000, Max: 500000},
		LiquidCapital:             300000,
		NetWorth:                  1000000,
		ManagementExperienceYears: 8,
		TimeCommitment:            "full-time",
	}
}

func testCatalog() []models.OpportunityInput {
	return []models.OpportunityInput{
		{ID: "fr-1", Name: "Brew House", Industry: "food-beverage",
			TotalInvestment: models.RangeInput{Min: 250000, Max: 450000}, BreakEvenMonthsEstimate: 18},
		{ID: "fr-2", Industry: "retail", TotalInvestment: models.RangeInput{Min: 2000000, Max: 3000000}},
	}
}

// ==========================
// Command tree
// ==========================

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"rank", "scenarios", "batch", "benchmarks", "registry", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag)
	assert.Equal(t, "4", flag.DefValue)
}

// ==========================
// rank
// ==========================

func TestRank(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.json", testProfile("inv-1"))
	catalog := writeFile(t, dir, "catalog.json", testCatalog())

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "rank", "--profile", profile, "--catalog", catalog)
		require.NoError(t, err)
		assert.Contains(t, out, "Brew House (fr-1)")
		assert.Contains(t, out, "94.9")
		assert.Contains(t, out, "250,000")
		assert.Contains(t, out, "2 of 2 candidates shown")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "rank", "--profile", profile, "--catalog", catalog, "--format", "json", "--top", "1")
		require.NoError(t, err)

		var resp struct {
			Matches         []matching.MatchResult `json:"matches"`
			TotalCandidates int                    `json:"totalCandidates"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 2, resp.TotalCandidates)
		require.Len(t, resp.Matches, 1)
		assert.Equal(t, "fr-1", resp.Matches[0].OpportunityID)
	})

	t.Run("bad catalog record", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.json", `[{"id":"x","totalInvestment":{"min":"lots"}}]`)
		_, err := execute(t, "rank", "--profile", profile, "--catalog", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog[0].totalInvestment.min")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "rank", "--profile", profile, "--catalog", catalog, "--format", "xml")
		assert.Error(t, err)
	})
}

// ==========================
// scenarios and benchmarks
// ==========================

func TestScenarios(t *testing.T) {
	args := []string{"scenarios", "--investment", "2,500,000", "--fee", "800000",
		"--royalty", "6", "--marketing", "2%", "--industry", "food-beverage", "--tier", "tier2"}

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, append(args, "--format", "json")...)
		require.NoError(t, err)

		var set projection.ScenarioSet
		require.NoError(t, json.Unmarshal([]byte(out), &set))
		require.Len(t, set.Scenarios, 3)
		assert.Equal(t, 1425000.0, set.Scenarios[1].Projections[0].NetIncome)
		assert.Equal(t, 5, set.Params.HorizonYears)
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, append(args, "--horizon", "3")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Investment 2,500,000 in food-beverage (tier2)")
		assert.Contains(t, out, "Realistic (50.0% probability)")
		assert.Contains(t, out, "1,425,000")
		assert.Contains(t, out, "Expected final-year ROI")
	})

	t.Run("unknown industry", func(t *testing.T) {
		_, err := execute(t, "scenarios", "--investment", "100000", "--industry", "space-tourism", "--tier", "tier1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UNKNOWN_INDUSTRY")
	})

	t.Run("custom benchmarks", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "benchmarks.yaml", `
industries:
  laundromat:
    average_revenue: 400000
    gross_margin: 0.6
    operating_margin: 0.2
    break_even_months: 30
locations:
  tier1:
    revenue: 1.0
    cost: 1.0
`)
		out, err := execute(t, "scenarios", "--investment", "300000", "--industry", "laundromat",
			"--tier", "tier1", "--benchmarks", path, "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"averageRevenue": 400000`)
	})
}

func TestBenchmarks(t *testing.T) {
	out, err := execute(t, "benchmarks")
	require.NoError(t, err)

	assert.Contains(t, out, "food-beverage")
	assert.Contains(t, out, "2,500,000")
	assert.Contains(t, out, "65.0%")
	assert.Contains(t, out, "tier3")
}

// ==========================
// batch
// ==========================

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles")
	require.NoError(t, os.Mkdir(profiles, 0o700))
	writeFile(t, profiles, "a.json", testProfile("inv-a"))
	writeFile(t, profiles, "b.json", testProfile("inv-b"))
	writeFile(t, profiles, "c.json", `{"id":"inv-c","liquidCapital":"plenty"}`)
	catalog := writeFile(t, dir, "catalog.json", testCatalog())

	out, err := execute(t, "batch", "--profiles", profiles, "--catalog", catalog, "--concurrency", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Run ")
	assert.Contains(t, out, "3 profiles against 2 opportunities")
	assert.Contains(t, out, "inv-a")
	assert.Contains(t, out, "VALIDATION_ERROR (liquidCapital)")
	assert.Contains(t, out, "2 succeeded, 1 failed")
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "ok.json", testProfile("ok")),
		writeFile(t, dir, "boom.json", testProfile("boom")),
		writeFile(t, dir, "broken.json", `{`),
	}

	results, err := processBatch(context.Background(), "run-1", files, 3,
		func(ctx context.Context, p models.InvestorProfileInput) ([]matching.MatchResult, error) {
			if p.ID == "boom" {
				return nil, errors.New("engine exploded")
			}
			return []matching.MatchResult{{OpportunityID: "fr-1", OverallMatchScore: 80}}, nil
		})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "fr-1", results[0].Matches[0].OpportunityID)
	assert.ErrorContains(t, results[1].Err, "INTERNAL_ERROR")
	assert.Error(t, results[2].Err)
	assert.Equal(t, "broken.json", results[2].File)
}

// ==========================
// registry
// ==========================

func TestRegistryValidate(t *testing.T) {
	out, err := execute(t, "registry", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Registry validation passed. Found 3 activities.")
}

func TestCheckRegistry(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	t.Run("embedded registry matches workers", func(t *testing.T) {
		assert.Empty(t, checkRegistry(reg, []string{"calculate-match-score", "rank-opportunities", "build-roi-scenarios"}))
	})

	t.Run("mismatched workers", func(t *testing.T) {
		problems := checkRegistry(reg, []string{"calculate-match-score", "rank-opportunities", "email-send"})
		assert.Contains(t, problems, `task type "build-roi-scenarios" has no worker`)
		assert.Contains(t, problems, `worker "email-send" is not registered`)
	})

	t.Run("bad activity fields", func(t *testing.T) {
		bad := &registry.ActivityRegistry{Activities: []registry.Activity{{
			ID: "Rank", DisplayName: "Rank", Category: "franchise", TaskType: "rank-opportunities",
			InputSchema: map[string]interface{}{"type": 42},
			ErrorCodes:  []string{"INVALID_INPUT", "PAYMENT_DECLINED"},
			Timeout:     "soon",
		}}}
		problems := checkRegistry(bad, []string{"rank-opportunities"})
		require.Len(t, problems, 4)
		assert.Contains(t, problems[0], "domain.subdomain.action")
		assert.Contains(t, problems[1], "input schema")
		assert.Contains(t, problems[2], `invalid timeout "soon"`)
		assert.Contains(t, problems[3], "unknown error code PAYMENT_DECLINED")
	})
}
