package projection

import (
	"fmt"
	"math"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

// ScenarioName labels one growth trajectory.
type ScenarioName string

const (
	Conservative ScenarioName = "Conservative"
	Realistic    ScenarioName = "Realistic"
	Optimistic   ScenarioName = "Optimistic"
)

// ROI outlook cutoffs on the final-year cumulative ROI, in percent.
const (
	strongROIThreshold   = 20.0
	moderateROIThreshold = 10.0
)

// ScenarioProfile is the fixed definition of one scenario.
type ScenarioProfile struct {
	Name        ScenarioName
	Probability float64
	Trajectory  Trajectory
	Assumptions []string
}

// DefaultScenarioProfiles returns the Conservative, Realistic and Optimistic
// definitions. Probabilities sum to 100.
func DefaultScenarioProfiles() []ScenarioProfile {
	return []ScenarioProfile{
		{
			Name:        Conservative,
			Probability: 30,
			Trajectory:  Trajectory{RevenueMultiplier: 0.8, CostMultiplier: 1.1},
			Assumptions: []string{
				"Lower than average market performance",
				"Higher operational costs initially",
				"Slower customer acquisition",
				"Conservative growth trajectory",
			},
		},
		{
			Name:        Realistic,
			Probability: 50,
			Trajectory:  Trajectory{RevenueMultiplier: 1.0, CostMultiplier: 1.0},
			Assumptions: []string{
				"Industry average performance",
				"Standard operational efficiency",
				"Moderate market growth",
				"Typical franchise success rate",
			},
		},
		{
			Name:        Optimistic,
			Probability: 20,
			Trajectory:  Trajectory{RevenueMultiplier: 1.2, CostMultiplier: 0.9},
			Assumptions: []string{
				"Above average market performance",
				"Excellent operational efficiency",
				"Strong local market demand",
				"Exceptional franchise execution",
			},
		},
	}
}

// Summary condenses a scenario's projection.
type Summary struct {
	FinalYearROI   float64 `json:"finalYearROI"`
	BreakEvenYear  int     `json:"breakEvenYear"`
	Year1Revenue   float64 `json:"year1Revenue"`
	Year1NetIncome float64 `json:"year1NetIncome"`
	TotalNetIncome float64 `json:"totalNetIncome"`
	ROIOutlook     string  `json:"roiOutlook"`
}

// Scenario is one complete multi-year trajectory.
type Scenario struct {
	Name           ScenarioName     `json:"name"`
	Probability    float64          `json:"probability"`
	Projections    []ProjectionYear `json:"projections"`
	Assumptions    []string         `json:"assumptions"`
	BreakEvenMonth *int             `json:"breakEvenMonth,omitempty"`
	Summary        Summary          `json:"summary"`
}

// ScenarioSet is the result of BuildScenarios.
type ScenarioSet struct {
	Params               normalize.ProjectionParams `json:"params"`
	Benchmark            Benchmark                  `json:"benchmark"`
	Location             LocationMultiplier         `json:"location"`
	Scenarios            []Scenario                 `json:"scenarios"`
	ExpectedFinalYearROI float64                    `json:"expectedFinalYearROI"`
	Warnings             []string                   `json:"warnings,omitempty"`
}

// Builder runs the simulator once per scenario profile.
type Builder struct {
	table          *BenchmarkTable
	profiles       []ScenarioProfile
	defaultHorizon int
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithScenarioProfiles replaces the default scenario definitions.
func WithScenarioProfiles(profiles []ScenarioProfile) BuilderOption {
	return func(b *Builder) {
		b.profiles = profiles
	}
}

// WithDefaultHorizon sets the horizon used when a request leaves it unset.
// Values outside 1..MaxHorizonYears are ignored.
func WithDefaultHorizon(years int) BuilderOption {
	return func(b *Builder) {
		if years > 0 && years <= normalize.MaxHorizonYears {
			b.defaultHorizon = years
		}
	}
}

// NewBuilder returns a Builder over table, or the default table when nil.
// The table is used as given: it is not validated and its keys are not
// rewritten. LoadBenchmarks is the checked way to build one; tables built in
// code should use canonical keys and pass Validate.
func NewBuilder(table *BenchmarkTable, opts ...BuilderOption) *Builder {
	if table == nil {
		table = DefaultBenchmarks()
	}
	b := &Builder{table: table, profiles: DefaultScenarioProfiles()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Benchmarks exposes the table the builder resolves against.
func (b *Builder) Benchmarks() *BenchmarkTable {
	return b.table
}

// BuildScenarios validates raw parameters and returns every scenario, or an
// error before any simulation runs.
func (b *Builder) BuildScenarios(raw models.ProjectionParamsInput) (*ScenarioSet, error) {
	if raw.HorizonYears == nil && b.defaultHorizon > 0 {
		raw.HorizonYears = b.defaultHorizon
	}
	params, err := normalize.NormalizeParams(raw)
	if err != nil {
		return nil, err
	}
	return b.Build(params)
}

// Build runs the scenario set for already-normalized parameters.
func (b *Builder) Build(params normalize.ProjectionParams) (*ScenarioSet, error) {
	benchmark, err := b.table.Industry(params.IndustryKey)
	if err != nil {
		return nil, err
	}
	location, err := b.table.Location(params.LocationTier)
	if err != nil {
		return nil, err
	}

	set := &ScenarioSet{
		Params:    params,
		Benchmark: benchmark,
		Location:  location,
		Scenarios: make([]Scenario, 0, len(b.profiles)),
	}

	var expected float64
	for _, profile := range b.profiles {
		years := Simulate(SimulationInput{
			Params:     params,
			Benchmark:  benchmark,
			Location:   location,
			Trajectory: profile.Trajectory,
		})

		scenario := Scenario{
			Name:        profile.Name,
			Probability: profile.Probability,
			Projections: years,
			Assumptions: append([]string(nil), profile.Assumptions...),
			Summary:     summarize(years),
		}
		if month, ok := BreakEvenMonth(years); ok {
			scenario.BreakEvenMonth = &month
		}
		// Simulate grows revenue and costs by one factor, so net income keeps
		// its sign and this cannot fire today. It guards trajectories that
		// grow revenue and costs at different rates.
		if oscillates(years) {
			set.Warnings = append(set.Warnings,
				fmt.Sprintf("%s: cumulative ROI fell back below zero after breaking even", profile.Name))
		}

		expected += profile.Probability / 100 * scenario.Summary.FinalYearROI
		set.Scenarios = append(set.Scenarios, scenario)
	}
	set.ExpectedFinalYearROI = math.Round(expected*100) / 100

	return set, nil
}

func summarize(years []ProjectionYear) Summary {
	if len(years) == 0 {
		return Summary{ROIOutlook: outlook(0)}
	}

	first, last := years[0], years[len(years)-1]
	s := Summary{
		FinalYearROI:   last.CumulativeROI,
		Year1Revenue:   first.Revenue,
		Year1NetIncome: first.NetIncome,
		TotalNetIncome: last.CumulativeNetIncome,
		ROIOutlook:     outlook(last.CumulativeROI),
	}
	for _, y := range years {
		if y.BreakEvenMonth != nil {
			s.BreakEvenYear = y.Year
			break
		}
	}
	return s
}

func outlook(roi float64) string {
	switch {
	case roi > strongROIThreshold:
		return "strong"
	case roi > moderateROIThreshold:
		return "moderate"
	default:
		return "limited"
	}
}
