package matching

import (
	"math"

	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

// Financial fit.
const (
	budgetWeight    = 0.60
	liquidityWeight = 0.25
	netWorthWeight  = 0.15

	// Decay rates per unit of relative distance outside the budget. Running
	// over budget costs more than coming in under it.
	overBudgetDecay  = 2.5
	underBudgetDecay = 1.0

	liquidityExponent = 1.5

	// When liquid capital cannot cover the minimum investment the whole
	// score is scaled by floor + (1-floor)*ratio^2.
	illiquidityFloor = 0.35

	unknownBudgetScore = 50.0
)

// Experience fit.
const (
	experienceHalfLifeYears = 4.0

	handsOnYearsWeight  = 0.5
	lowTouchYearsWeight = 0.6
)

var handsOnCommitment = map[normalize.TimeCommitment]float64{
	normalize.CommitmentFullTime:    100,
	normalize.CommitmentPartTime:    45,
	normalize.CommitmentSemiAbsent:  30,
	normalize.CommitmentAbsentee:    15,
	normalize.CommitmentUnspecified: 50,
}

var lowTouchCommitment = map[normalize.TimeCommitment]float64{
	normalize.CommitmentFullTime:    90,
	normalize.CommitmentPartTime:    80,
	normalize.CommitmentSemiAbsent:  100,
	normalize.CommitmentAbsentee:    90,
	normalize.CommitmentUnspecified: 60,
}

// Success probability.
const (
	successFinancialWeight  = 0.4
	successExperienceWeight = 0.3
	successBreakEvenWeight  = 0.3

	breakEvenDecayMonths   = 36.0
	unknownBreakEvenSignal = 50.0
)

// FinancialFit scores how well the opportunity's investment range sits
// within the investor's budget and liquid capital.
func FinancialFit(p normalize.Profile, o normalize.Opportunity) float64 {
	budget := budgetScore(p.Budget, o.TotalInvestment.Midpoint())

	ratio := 1.0
	if o.TotalInvestment.Min > 0 {
		ratio = p.LiquidCapital / o.TotalInvestment.Min
	}
	liquidity := 100 * math.Pow(math.Min(1, ratio), liquidityExponent)

	netWorth := 100.0
	if o.TotalInvestment.Max > 0 {
		netWorth = 100 * math.Min(1, p.NetWorth/o.TotalInvestment.Max)
	}

	score := budget*budgetWeight + liquidity*liquidityWeight + netWorth*netWorthWeight
	if ratio < 1 {
		score *= illiquidityFloor + (1-illiquidityFloor)*ratio*ratio
	}
	return normalize.Clamp(score, 0, 100)
}

func budgetScore(budget normalize.Range, midpoint float64) float64 {
	if budget.Max <= 0 {
		return unknownBudgetScore
	}
	if budget.Contains(midpoint) {
		return 100
	}
	if midpoint > budget.Max {
		d := (midpoint - budget.Max) / budget.Max
		return 100 * math.Exp(-overBudgetDecay*d)
	}
	// budget.Min > midpoint >= 0 here, so Min is positive.
	d := (budget.Min - midpoint) / budget.Min
	return 100 * math.Exp(-underBudgetDecay*d)
}

// ExperienceFit scores operational readiness. Low-touch opportunities do
// not penalise semi-absentee or absentee owners.
func ExperienceFit(p normalize.Profile, o normalize.Opportunity) float64 {
	years := 100 * (1 - math.Exp(-float64(p.ManagementExperienceYears)/experienceHalfLifeYears))

	var score float64
	if o.OwnerInvolvement == normalize.InvolvementLowTouch {
		score = years*lowTouchYearsWeight + lowTouchCommitment[p.TimeCommitment]*(1-lowTouchYearsWeight)
	} else {
		score = years*handsOnYearsWeight + handsOnCommitment[p.TimeCommitment]*(1-handsOnYearsWeight)
	}
	return normalize.Clamp(score, 0, 100)
}

// SuccessProbability blends the two fit scores with a break-even signal and,
// when the catalog supplies one, the opportunity's historical success rate.
// breakEvenMonths of zero means unknown.
func SuccessProbability(financial, experience float64, breakEvenMonths int, successRate float64) float64 {
	signal := unknownBreakEvenSignal
	if breakEvenMonths > 0 {
		signal = 100 * math.Exp(-float64(breakEvenMonths)/breakEvenDecayMonths)
	}

	score := financial*successFinancialWeight +
		experience*successExperienceWeight +
		signal*successBreakEvenWeight
	if successRate > 0 {
		score = (score + successRate) / 2
	}
	return normalize.Clamp(score, 0, 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
