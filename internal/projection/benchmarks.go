package projection

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Benchmark holds reference figures for one industry.
type Benchmark struct {
	AverageRevenue  float64 `yaml:"average_revenue" json:"averageRevenue"`
	GrossMargin     float64 `yaml:"gross_margin" json:"grossMargin"`
	OperatingMargin float64 `yaml:"operating_margin" json:"operatingMargin"`
	BreakEvenMonths int     `yaml:"break_even_months" json:"breakEvenMonths"`
}

// LocationMultiplier scales revenue and operating costs for a location tier.
type LocationMultiplier struct {
	Revenue float64 `yaml:"revenue" json:"revenue"`
	Cost    float64 `yaml:"cost" json:"cost"`
}

// BenchmarkTable is the injectable lookup used by the scenario builder.
type BenchmarkTable struct {
	Industries map[string]Benchmark          `yaml:"industries" json:"industries"`
	Locations  map[string]LocationMultiplier `yaml:"locations" json:"locations"`
}

// UnknownIndustryError is returned when an industry key has no benchmark.
type UnknownIndustryError struct {
	Key string
}

func (e *UnknownIndustryError) Error() string {
	return fmt.Sprintf("unknown industry %q", e.Key)
}

// UnknownLocationError is returned when a location tier has no multiplier.
type UnknownLocationError struct {
	Tier string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location tier %q", e.Tier)
}

// DefaultBenchmarks returns the built-in marketplace benchmarks.
func DefaultBenchmarks() *BenchmarkTable {
	return &BenchmarkTable{
		Industries: map[string]Benchmark{
			"food-beverage": {AverageRevenue: 2500000, GrossMargin: 0.65, OperatingMargin: 0.15, BreakEvenMonths: 18},
			"retail":        {AverageRevenue: 1800000, GrossMargin: 0.55, OperatingMargin: 0.12, BreakEvenMonths: 24},
			"services":      {AverageRevenue: 1200000, GrossMargin: 0.75, OperatingMargin: 0.25, BreakEvenMonths: 12},
			"fitness":       {AverageRevenue: 800000, GrossMargin: 0.70, OperatingMargin: 0.20, BreakEvenMonths: 15},
		},
		Locations: map[string]LocationMultiplier{
			"tier1": {Revenue: 1.3, Cost: 1.4},
			"tier2": {Revenue: 1.0, Cost: 1.0},
			"tier3": {Revenue: 0.7, Cost: 0.8},
		},
	}
}

// LoadBenchmarks reads a YAML benchmark table from path.
func LoadBenchmarks(path string) (*BenchmarkTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "benchmarks: read %s", path)
	}

	var table BenchmarkTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrapf(err, "benchmarks: parse %s", path)
	}
	if err := table.canonicalize(); err != nil {
		return nil, eris.Wrapf(err, "benchmarks: %s", path)
	}
	if err := table.Validate(); err != nil {
		return nil, eris.Wrapf(err, "benchmarks: %s", path)
	}
	return &table, nil
}

// canonicalize rewrites keys onto their lookup form. Two keys folding onto
// the same form ("Food Beverage" and "food-beverage") are an error.
func (t *BenchmarkTable) canonicalize() error {
	industries, err := canonicalMap(t.Industries, "industry")
	if err != nil {
		return err
	}
	locations, err := canonicalMap(t.Locations, "location")
	if err != nil {
		return err
	}
	t.Industries, t.Locations = industries, locations
	return nil
}

func canonicalMap[V any](in map[string]V, kind string) (map[string]V, error) {
	out := make(map[string]V, len(in))
	seen := make(map[string]string, len(in))
	for k, v := range in {
		key := canonicalKey(k)
		if prev, ok := seen[key]; ok {
			a, b := prev, k
			if a > b {
				a, b = b, a
			}
			return nil, eris.Errorf("%s keys %q and %q both resolve to %q", kind, a, b, key)
		}
		seen[key] = k
		out[key] = v
	}
	return out, nil
}

// Validate rejects benchmark figures that would make projections meaningless.
func (t *BenchmarkTable) Validate() error {
	if len(t.Industries) == 0 {
		return eris.New("no industries defined")
	}
	if len(t.Locations) == 0 {
		return eris.New("no location tiers defined")
	}
	for key, b := range t.Industries {
		if b.AverageRevenue <= 0 {
			return eris.Errorf("industry %s: average_revenue must be positive", key)
		}
		if b.GrossMargin <= 0 || b.GrossMargin > 1 {
			return eris.Errorf("industry %s: gross_margin must be in (0, 1]", key)
		}
		if b.OperatingMargin < 0 || b.OperatingMargin > 1 {
			return eris.Errorf("industry %s: operating_margin must be in [0, 1]", key)
		}
		if b.BreakEvenMonths < 0 {
			return eris.Errorf("industry %s: break_even_months must not be negative", key)
		}
	}
	for tier, m := range t.Locations {
		if m.Revenue <= 0 || m.Cost <= 0 {
			return eris.Errorf("location %s: multipliers must be positive", tier)
		}
	}
	return nil
}

// Industry resolves an industry benchmark.
func (t *BenchmarkTable) Industry(key string) (Benchmark, error) {
	b, ok := t.Industries[canonicalKey(key)]
	if !ok {
		return Benchmark{}, &UnknownIndustryError{Key: key}
	}
	return b, nil
}

// Location resolves a location tier multiplier.
func (t *BenchmarkTable) Location(tier string) (LocationMultiplier, error) {
	m, ok := t.Locations[canonicalKey(tier)]
	if !ok {
		return LocationMultiplier{}, &UnknownLocationError{Tier: tier}
	}
	return m, nil
}

// BreakEvenMonths returns the industry's typical break-even horizon, or 0.
func (t *BenchmarkTable) BreakEvenMonths(industry string) int {
	if b, ok := t.Industries[canonicalKey(industry)]; ok {
		return b.BreakEvenMonths
	}
	return 0
}

// IndustryKeys returns the known industries in sorted order.
func (t *BenchmarkTable) IndustryKeys() []string {
	keys := make([]string, 0, len(t.Industries))
	for k := range t.Industries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LocationTiers returns the known tiers in sorted order.
func (t *BenchmarkTable) LocationTiers() []string {
	keys := make([]string, 0, len(t.Locations))
	for k := range t.Locations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// canonicalKey folds catalog labels like "Food & Beverage" onto table keys.
func canonicalKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("&", "-", "_", "-", " ", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
