package projection

import (
	"github.com/shopspring/decimal"

	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

const (
	// AnnualGrowthRate compounds revenue and operating costs year over year.
	AnnualGrowthRate = 0.08

	// Break-even is reported at mid-year granularity: year*12 - 6.
	monthsPerYear         = 12
	breakEvenMidYearShift = 6
)

var (
	hundred     = decimal.NewFromInt(100)
	growthStep  = decimal.NewFromFloat(1 + AnnualGrowthRate)
	currencyDps = int32(2)
)

// Trajectory is a revenue/cost multiplier pair applied on top of the
// location-adjusted base.
type Trajectory struct {
	RevenueMultiplier float64 `json:"revenueMultiplier"`
	CostMultiplier    float64 `json:"costMultiplier"`
}

// ProjectionYear is one simulated year.
type ProjectionYear struct {
	Year                int     `json:"year"`
	Revenue             float64 `json:"revenue"`
	OperatingCosts      float64 `json:"operatingCosts"`
	RoyaltyFee          float64 `json:"royaltyFee"`
	MarketingFee        float64 `json:"marketingFee"`
	Expenses            float64 `json:"expenses"`
	NetIncome           float64 `json:"netIncome"`
	CumulativeNetIncome float64 `json:"cumulativeNetIncome"`
	CumulativeROI       float64 `json:"cumulativeROI"`
	BreakEvenMonth      *int    `json:"breakEvenMonth,omitempty"`
}

// SimulationInput is everything one growth trajectory needs.
type SimulationInput struct {
	Params     normalize.ProjectionParams
	Benchmark  Benchmark
	Location   LocationMultiplier
	Trajectory Trajectory
}

// Simulate produces exactly Params.HorizonYears projection rows.
//
// Revenue and operating costs grow by AnnualGrowthRate from a base of
// averageRevenue scaled by the location and trajectory multipliers. Royalty
// and marketing fees are percentages of that year's revenue.
func Simulate(in SimulationInput) []ProjectionYear {
	horizon := in.Params.HorizonYears
	if horizon <= 0 {
		horizon = normalize.DefaultHorizonYears
	}

	locRevenue := decimal.NewFromFloat(in.Benchmark.AverageRevenue).
		Mul(decimal.NewFromFloat(in.Location.Revenue))
	baseRevenue := locRevenue.Mul(decimal.NewFromFloat(in.Trajectory.RevenueMultiplier))
	baseCosts := locRevenue.
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(in.Benchmark.GrossMargin))).
		Mul(decimal.NewFromFloat(in.Location.Cost)).
		Mul(decimal.NewFromFloat(in.Trajectory.CostMultiplier))

	royaltyRate := decimal.NewFromFloat(in.Params.RoyaltyPercent).Div(hundred)
	marketingRate := decimal.NewFromFloat(in.Params.MarketingFeePercent).Div(hundred)
	investment := decimal.NewFromFloat(in.Params.InitialInvestment)

	years := make([]ProjectionYear, 0, horizon)
	growth := decimal.NewFromInt(1)
	cumulative := decimal.Zero
	brokeEven := false

	for year := 1; year <= horizon; year++ {
		revenue := baseRevenue.Mul(growth)
		operating := baseCosts.Mul(growth)
		royalty := revenue.Mul(royaltyRate)
		marketing := revenue.Mul(marketingRate)
		expenses := operating.Add(royalty).Add(marketing)
		net := revenue.Sub(expenses)
		cumulative = cumulative.Add(net)
		// Break-even is decided on the ROI as reported, so a row never shows
		// zero next to a break-even month.
		roi := cumulative.Sub(investment).Div(investment).Mul(hundred).Round(currencyDps)

		row := ProjectionYear{
			Year:                year,
			Revenue:             money(revenue),
			OperatingCosts:      money(operating),
			RoyaltyFee:          money(royalty),
			MarketingFee:        money(marketing),
			Expenses:            money(expenses),
			NetIncome:           money(net),
			CumulativeNetIncome: money(cumulative),
			CumulativeROI:       roi.InexactFloat64(),
		}
		if !brokeEven && roi.IsPositive() {
			month := year*monthsPerYear - breakEvenMidYearShift
			row.BreakEvenMonth = &month
			brokeEven = true
		}

		years = append(years, row)
		growth = growth.Mul(growthStep)
	}

	return years
}

// BreakEvenMonth returns the month recorded in a projection, if any.
func BreakEvenMonth(years []ProjectionYear) (int, bool) {
	for _, y := range years {
		if y.BreakEvenMonth != nil {
			return *y.BreakEvenMonth, true
		}
	}
	return 0, false
}

// oscillates reports a cumulative ROI that turned positive and later fell
// back to zero or below. With a single growth factor for revenue and costs
// the cumulative ROI is monotone, so Simulate output never oscillates.
func oscillates(years []ProjectionYear) bool {
	positive := false
	for _, y := range years {
		if y.CumulativeROI > 0 {
			positive = true
		} else if positive {
			return true
		}
	}
	return false
}

func money(d decimal.Decimal) float64 {
	return d.Round(currencyDps).InexactFloat64()
}
