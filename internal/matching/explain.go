package matching

import "sort"

// MatchLevel is the qualitative bucket for an overall score.
type MatchLevel string

const (
	LevelExcellent MatchLevel = "Excellent"
	LevelGood      MatchLevel = "Good"
	LevelFair      MatchLevel = "Fair"
	LevelPoor      MatchLevel = "Poor"
)

// Match level cutoffs on the overall score.
const (
	ExcellentThreshold = 80.0
	GoodThreshold      = 65.0
	FairThreshold      = 45.0
)

// DefaultStrengthThreshold is the minimum sub-score that earns a strength.
const DefaultStrengthThreshold = 60.0

const maxStrengths = 3

// Concern cutoffs.
const (
	financialConcernBelow  = 60.0
	experienceConcernBelow = 50.0
	successConcernBelow    = 45.0
)

// Recommendation cutoffs on the overall score.
const (
	strongRecommendation   = 75.0
	moderateRecommendation = 60.0
)

// LevelFor maps an overall score to its match level.
func LevelFor(score float64) MatchLevel {
	switch {
	case score >= ExcellentThreshold:
		return LevelExcellent
	case score >= GoodThreshold:
		return LevelGood
	case score >= FairThreshold:
		return LevelFair
	default:
		return LevelPoor
	}
}

type dimension struct {
	score    float64
	strength string
}

// Strengths lists up to three phrases for sub-scores at or above threshold,
// highest first. Equal scores keep financial, experience, success order.
func Strengths(financial, experience, success, threshold float64) []string {
	dims := []dimension{
		{score: financial, strength: "Strong financial fit for your budget and liquidity"},
		{score: experience, strength: "Your management experience suits this business"},
		{score: success, strength: "High likelihood of reaching positive cash flow"},
	}
	sort.SliceStable(dims, func(i, j int) bool {
		return dims[i].score > dims[j].score
	})

	strengths := make([]string, 0, maxStrengths)
	for _, d := range dims {
		if d.score < threshold || len(strengths) == maxStrengths {
			break
		}
		strengths = append(strengths, d.strength)
	}
	return strengths
}

// Concerns lists the sub-scores that fall below their concern cutoffs.
func Concerns(financial, experience, success float64) []string {
	concerns := make([]string, 0, 3)
	if financial < financialConcernBelow {
		concerns = append(concerns, "Financial capacity may be stretched")
	}
	if experience < experienceConcernBelow {
		concerns = append(concerns, "Limited relevant management experience")
	}
	if success < successConcernBelow {
		concerns = append(concerns, "Longer path to positive cash flow")
	}
	return concerns
}

// Recommendation returns a one-line next step for an overall score.
func Recommendation(score float64) string {
	switch {
	case score >= strongRecommendation:
		return "Highly recommended: request the disclosure document and schedule a discovery call"
	case score >= moderateRecommendation:
		return "Worth exploring: review the financials and speak with existing owners"
	default:
		return "Proceed with caution: compare against opportunities closer to your profile"
	}
}
