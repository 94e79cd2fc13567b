package projection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBenchmarkFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultBenchmarks(t *testing.T) {
	table := DefaultBenchmarks()
	require.NoError(t, table.Validate())

	assert.Equal(t, []string{"fitness", "food-beverage", "retail", "services"}, table.IndustryKeys())
	assert.Equal(t, []string{"tier1", "tier2", "tier3"}, table.LocationTiers())

	b, err := table.Industry("food-beverage")
	require.NoError(t, err)
	assert.Equal(t, 2500000.0, b.AverageRevenue)
	assert.Equal(t, 18, b.BreakEvenMonths)

	loc, err := table.Location("tier1")
	require.NoError(t, err)
	assert.Equal(t, LocationMultiplier{Revenue: 1.3, Cost: 1.4}, loc)
}

func TestBenchmarkTable_Lookup(t *testing.T) {
	table := DefaultBenchmarks()

	t.Run("catalog labels fold onto keys", func(t *testing.T) {
		_, err := table.Industry("Food & Beverage")
		assert.NoError(t, err)
		assert.Equal(t, 24, table.BreakEvenMonths(" Retail "))
	})

	t.Run("unknown industry", func(t *testing.T) {
		_, err := table.Industry("aerospace")
		var unknown *UnknownIndustryError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "aerospace", unknown.Key)
		assert.Zero(t, table.BreakEvenMonths("aerospace"))
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := table.Location("tier9")
		var unknown *UnknownLocationError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "tier9", unknown.Tier)
	})
}

func TestBenchmarkTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table BenchmarkTable
	}{
		{name: "empty", table: BenchmarkTable{}},
		{
			name: "zero revenue",
			table: BenchmarkTable{
				Industries: map[string]Benchmark{"x": {GrossMargin: 0.5}},
				Locations:  map[string]LocationMultiplier{"tier2": {Revenue: 1, Cost: 1}},
			},
		},
		{
			name: "margin above one",
			table: BenchmarkTable{
				Industries: map[string]Benchmark{"x": {AverageRevenue: 1, GrossMargin: 1.5}},
				Locations:  map[string]LocationMultiplier{"tier2": {Revenue: 1, Cost: 1}},
			},
		},
		{
			name: "zero multiplier",
			table: BenchmarkTable{
				Industries: map[string]Benchmark{"x": {AverageRevenue: 1, GrossMargin: 0.5}},
				Locations:  map[string]LocationMultiplier{"tier2": {Revenue: 0, Cost: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.table.Validate())
		})
	}
}

func TestLoadBenchmarks(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeBenchmarkFile(t, `
industries:
  "Pet Care":
    average_revenue: 950000
    gross_margin: 0.6
    operating_margin: 0.18
    break_even_months: 20
locations:
  TIER2:
    revenue: 1.0
    cost: 1.0
`)
		table, err := LoadBenchmarks(path)
		require.NoError(t, err)

		b, err := table.Industry("pet-care")
		require.NoError(t, err)
		assert.Equal(t, 950000.0, b.AverageRevenue)
		assert.Equal(t, 20, b.BreakEvenMonths)

		_, err = table.Location("tier2")
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBenchmarks(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid figures", func(t *testing.T) {
		path := writeBenchmarkFile(t, `
industries:
  retail:
    average_revenue: -1
    gross_margin: 0.5
locations:
  tier2: {revenue: 1, cost: 1}
`)
		_, err := LoadBenchmarks(path)
		assert.Error(t, err)
	})

	t.Run("keys folding together", func(t *testing.T) {
		path := writeBenchmarkFile(t, `
industries:
  "Food Beverage":
    average_revenue: 1000000
    gross_margin: 0.6
  food-beverage:
    average_revenue: 2500000
    gross_margin: 0.65
locations:
  tier2: {revenue: 1, cost: 1}
`)
		_, err := LoadBenchmarks(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `industry keys "Food Beverage" and "food-beverage" both resolve to "food-beverage"`)
	})

	t.Run("tiers folding together", func(t *testing.T) {
		path := writeBenchmarkFile(t, `
industries:
  retail: {average_revenue: 1000000, gross_margin: 0.5}
locations:
  tier2: {revenue: 1, cost: 1}
  TIER2: {revenue: 2, cost: 2}
`)
		_, err := LoadBenchmarks(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "location keys")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeBenchmarkFile(t, "industries: [")
		_, err := LoadBenchmarks(path)
		assert.Error(t, err)
	})
}
