package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

func referenceInput() SimulationInput {
	return SimulationInput{
		Params: normalize.ProjectionParams{
			InitialInvestment:   2500000,
			FranchiseFee:        800000,
			RoyaltyPercent:      6,
			MarketingFeePercent: 2,
			IndustryKey:         "food-beverage",
			LocationTier:        "tier2",
			HorizonYears:        5,
		},
		Benchmark:  Benchmark{AverageRevenue: 2500000, GrossMargin: 0.65, OperatingMargin: 0.15},
		Location:   LocationMultiplier{Revenue: 1.0, Cost: 1.0},
		Trajectory: Trajectory{RevenueMultiplier: 1.0, CostMultiplier: 1.0},
	}
}

func TestSimulate_ReferenceYearOne(t *testing.T) {
	years := Simulate(referenceInput())
	require.Len(t, years, 5)

	y1 := years[0]
	assert.Equal(t, 1, y1.Year)
	assert.Equal(t, 2500000.0, y1.Revenue)
	assert.Equal(t, 875000.0, y1.OperatingCosts)
	assert.Equal(t, 150000.0, y1.RoyaltyFee)
	assert.Equal(t, 50000.0, y1.MarketingFee)
	assert.Equal(t, 1075000.0, y1.Expenses)
	assert.Equal(t, 1425000.0, y1.NetIncome)
	assert.Equal(t, -43.0, y1.CumulativeROI)
	assert.Nil(t, y1.BreakEvenMonth)
}

func TestSimulate_Growth(t *testing.T) {
	years := Simulate(referenceInput())

	assert.Equal(t, 2700000.0, years[1].Revenue)
	assert.Equal(t, 945000.0, years[1].OperatingCosts)
	assert.Equal(t, 1539000.0, years[1].NetIncome)
	assert.Equal(t, 2964000.0, years[1].CumulativeNetIncome)
	assert.InDelta(t, 18.56, years[1].CumulativeROI, 0.001)
	assert.InDelta(t, 234.40, years[4].CumulativeROI, 0.01)

	for i := 1; i < len(years); i++ {
		assert.Equal(t, years[i-1].Year+1, years[i].Year)
	}
}

func TestSimulate_BreakEven(t *testing.T) {
	t.Run("set once at the first positive year", func(t *testing.T) {
		years := Simulate(referenceInput())

		assert.Nil(t, years[0].BreakEvenMonth)
		require.NotNil(t, years[1].BreakEvenMonth)
		assert.Equal(t, 18, *years[1].BreakEvenMonth)
		for _, y := range years[2:] {
			assert.Nil(t, y.BreakEvenMonth)
		}

		month, ok := BreakEvenMonth(years)
		assert.True(t, ok)
		assert.Equal(t, 18, month)
	})

	t.Run("never reached", func(t *testing.T) {
		in := referenceInput()
		in.Params.InitialInvestment = 100000000
		years := Simulate(in)

		_, ok := BreakEvenMonth(years)
		assert.False(t, ok)
	})

	t.Run("first year", func(t *testing.T) {
		in := referenceInput()
		in.Params.InitialInvestment = 1000000
		years := Simulate(in)

		require.NotNil(t, years[0].BreakEvenMonth)
		assert.Equal(t, 6, *years[0].BreakEvenMonth)
	})

	t.Run("sub-cent ROI is not break-even", func(t *testing.T) {
		in := referenceInput()
		in.Params.InitialInvestment = 999.99999
		in.Params.RoyaltyPercent = 0
		in.Params.MarketingFeePercent = 0
		in.Params.HorizonYears = 2
		in.Benchmark = Benchmark{AverageRevenue: 1000, GrossMargin: 1}
		years := Simulate(in)

		assert.Equal(t, 0.0, years[0].CumulativeROI)
		assert.Nil(t, years[0].BreakEvenMonth)
		require.NotNil(t, years[1].BreakEvenMonth)
		assert.Equal(t, 18, *years[1].BreakEvenMonth)

		for _, y := range years {
			assert.False(t, y.BreakEvenMonth != nil && y.CumulativeROI <= 0, "year %d", y.Year)
		}
	})
}

func TestSimulate_Horizon(t *testing.T) {
	tests := []struct {
		name     string
		horizon  int
		expected int
	}{
		{name: "default when unset", horizon: 0, expected: 5},
		{name: "single year", horizon: 1, expected: 1},
		{name: "long horizon", horizon: 12, expected: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			in.Params.HorizonYears = tt.horizon
			assert.Len(t, Simulate(in), tt.expected)
		})
	}
}

func TestSimulate_LocationAndTrajectory(t *testing.T) {
	in := referenceInput()
	in.Location = LocationMultiplier{Revenue: 1.3, Cost: 1.4}
	in.Trajectory = Trajectory{RevenueMultiplier: 0.8, CostMultiplier: 1.1}

	y1 := Simulate(in)[0]
	// 2.5M * 1.3 * 0.8
	assert.Equal(t, 2600000.0, y1.Revenue)
	// 2.5M * 1.3 * 0.35 * 1.4 * 1.1
	assert.Equal(t, 1751750.0, y1.OperatingCosts)
	assert.Equal(t, 156000.0, y1.RoyaltyFee)
}

func TestOscillates(t *testing.T) {
	assert.False(t, oscillates([]ProjectionYear{{CumulativeROI: -10}, {CumulativeROI: 5}, {CumulativeROI: 12}}))
	assert.True(t, oscillates([]ProjectionYear{{CumulativeROI: -10}, {CumulativeROI: 5}, {CumulativeROI: -1}}))
	assert.False(t, oscillates(nil))
}
