package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

func experiencedProfile() normalize.Profile {
	return normalize.Profile{
		ID:                        "inv-1",
		Budget:                    normalize.Range{Min: 200000, Max: 500000},
		LiquidCapital:             300000,
		NetWorth:                  1000000,
		ManagementExperienceYears: 8,
		TimeCommitment:            normalize.CommitmentFullTime,
	}
}

// ==========================
// Financial fit
// ==========================

func TestFinancialFit(t *testing.T) {
	inBudget := normalize.Opportunity{TotalInvestment: normalize.Range{Min: 250000, Max: 450000}}

	t.Run("midpoint inside budget with ample capital", func(t *testing.T) {
		assert.Equal(t, 100.0, FinancialFit(experiencedProfile(), inBudget))
	})

	t.Run("capital insufficiency is a hard penalty", func(t *testing.T) {
		p := normalize.Profile{
			Budget:        normalize.Range{Min: 4000000, Max: 6000000},
			LiquidCapital: 1000000,
			NetWorth:      10000000,
		}
		o := normalize.Opportunity{TotalInvestment: normalize.Range{Min: 5000000, Max: 5000000}}

		score := FinancialFit(p, o)
		assert.Less(t, score, 35.0)
		assert.Greater(t, score, 0.0)
	})

	t.Run("illiquidity hurts more than being outside budget", func(t *testing.T) {
		overBudget := experiencedProfile()
		overBudget.Budget = normalize.Range{Min: 100000, Max: 250000}
		illiquid := experiencedProfile()
		illiquid.LiquidCapital = 100000

		assert.Less(t, FinancialFit(illiquid, inBudget), FinancialFit(overBudget, inBudget))
	})

	t.Run("decays smoothly past the budget edge", func(t *testing.T) {
		p := experiencedProfile()
		p.LiquidCapital = 10000000
		p.NetWorth = 10000000

		prev := 101.0
		for _, mid := range []float64{500000, 510000, 550000, 700000, 1000000} {
			o := normalize.Opportunity{TotalInvestment: normalize.Range{Min: mid, Max: mid}}
			score := FinancialFit(p, o)
			assert.Less(t, score, prev)
			assert.Greater(t, prev-score, 0.0)
			prev = score
		}

		just := FinancialFit(p, normalize.Opportunity{TotalInvestment: normalize.Range{Min: 505000, Max: 505000}})
		assert.Greater(t, just, 98.0)
	})

	t.Run("unknown budget is neutral", func(t *testing.T) {
		p := experiencedProfile()
		p.Budget = normalize.Range{}
		assert.InDelta(t, 50*budgetWeight+100*liquidityWeight+100*netWorthWeight, FinancialFit(p, inBudget), 0.0001)
	})

	t.Run("empty profile stays in range", func(t *testing.T) {
		score := FinancialFit(normalize.Profile{}, inBudget)
		assert.False(t, math.IsNaN(score))
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	})
}

// ==========================
// Experience fit
// ==========================

func TestExperienceFit(t *testing.T) {
	handsOn := normalize.Opportunity{OwnerInvolvement: normalize.InvolvementHandsOn}
	lowTouch := normalize.Opportunity{OwnerInvolvement: normalize.InvolvementLowTouch}

	t.Run("full-time with more years scores higher", func(t *testing.T) {
		junior := normalize.Profile{ManagementExperienceYears: 1, TimeCommitment: normalize.CommitmentFullTime}
		senior := normalize.Profile{ManagementExperienceYears: 10, TimeCommitment: normalize.CommitmentFullTime}
		assert.Greater(t, ExperienceFit(senior, handsOn), ExperienceFit(junior, handsOn))
	})

	t.Run("absentee penalised only when hands-on", func(t *testing.T) {
		p := normalize.Profile{TimeCommitment: normalize.CommitmentAbsentee}
		assert.InDelta(t, 7.5, ExperienceFit(p, handsOn), 0.0001)
		assert.InDelta(t, 36.0, ExperienceFit(p, lowTouch), 0.0001)
	})

	t.Run("semi-absentee is the best low-touch commitment", func(t *testing.T) {
		semi := normalize.Profile{ManagementExperienceYears: 5, TimeCommitment: normalize.CommitmentSemiAbsent}
		full := normalize.Profile{ManagementExperienceYears: 5, TimeCommitment: normalize.CommitmentFullTime}
		assert.Greater(t, ExperienceFit(semi, lowTouch), ExperienceFit(full, lowTouch))
		assert.Less(t, ExperienceFit(semi, handsOn), ExperienceFit(full, handsOn))
	})

	t.Run("bounded for extreme experience", func(t *testing.T) {
		p := normalize.Profile{ManagementExperienceYears: math.MaxInt32, TimeCommitment: normalize.CommitmentFullTime}
		assert.LessOrEqual(t, ExperienceFit(p, handsOn), 100.0)
	})
}

// ==========================
// Success probability
// ==========================

func TestSuccessProbability(t *testing.T) {
	tests := []struct {
		name        string
		financial   float64
		experience  float64
		months      int
		successRate float64
		expected    float64
	}{
		{name: "unknown break-even", financial: 80, experience: 60, months: 0, expected: 32 + 18 + 15},
		{name: "zero fits", financial: 0, experience: 0, months: 0, expected: 15},
		{name: "success rate blends in", financial: 80, experience: 60, months: 0, successRate: 95, expected: (65 + 95) / 2.0},
		{name: "all maxed", financial: 100, experience: 100, months: 1, successRate: 100, expected: (40 + 30 + 30*math.Exp(-1.0/36) + 100) / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SuccessProbability(tt.financial, tt.experience, tt.months, tt.successRate), 0.0001)
		})
	}

	t.Run("shorter break-even is better", func(t *testing.T) {
		fast := SuccessProbability(70, 70, 12, 0)
		slow := SuccessProbability(70, 70, 36, 0)
		assert.Greater(t, fast, slow)
	})
}
