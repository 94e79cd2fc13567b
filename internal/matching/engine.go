package matching

import (
	"sort"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

// DefaultTopN is used when a caller passes topN <= 0.
const DefaultTopN = 10

// BreakEvenLookup supplies industry break-even months when an opportunity
// does not carry its own estimate. Zero means unknown.
type BreakEvenLookup interface {
	BreakEvenMonths(industry string) int
}

// MatchResult is one scored opportunity.
type MatchResult struct {
	OpportunityID            string                 `json:"opportunityId"`
	OpportunityName          string                 `json:"opportunityName,omitempty"`
	Industry                 string                 `json:"industry,omitempty"`
	FinancialFitScore        float64                `json:"financialFitScore"`
	ExperienceFitScore       float64                `json:"experienceFitScore"`
	SuccessProbability       float64                `json:"successProbability"`
	OverallMatchScore        float64                `json:"overallMatchScore"`
	MatchLevel               MatchLevel             `json:"matchLevel"`
	Strengths                []string               `json:"strengths"`
	Concerns                 []string               `json:"concerns"`
	Recommendation           string                 `json:"recommendation"`
	EstimatedBreakEvenMonths *int                   `json:"estimatedBreakEvenMonths,omitempty"`
	MinInvestment            float64                `json:"minInvestment"`
	Attributes               map[string]interface{} `json:"attributes,omitempty"`
}

// Engine ranks catalogs against investor profiles. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	weights           Weights
	strengthThreshold float64
	defaultTopN       int
	breakEven         BreakEvenLookup
}

// Option customises an Engine.
type Option func(*Engine)

// WithWeights overrides the overall-score weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithStrengthThreshold overrides the minimum sub-score for a strength.
func WithStrengthThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.strengthThreshold = threshold
	}
}

// WithDefaultTopN overrides the result count used when topN <= 0.
func WithDefaultTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultTopN = n
		}
	}
}

// WithBreakEvenLookup sets the fallback source for break-even estimates.
func WithBreakEvenLookup(l BreakEvenLookup) Option {
	return func(e *Engine) {
		e.breakEven = l
	}
}

// NewEngine builds an Engine, rejecting invalid weights.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		weights:           DefaultWeights(),
		strengthThreshold: DefaultStrengthThreshold,
		defaultTopN:       DefaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// RankOpportunities normalizes the profile and catalog, scores every
// opportunity and returns the best topN. A malformed profile or catalog
// record fails the whole call.
func (e *Engine) RankOpportunities(profile models.InvestorProfileInput, catalog []models.OpportunityInput, topN int) ([]MatchResult, error) {
	p, err := normalize.NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	opps, err := normalize.NormalizeCatalog(catalog)
	if err != nil {
		return nil, err
	}
	return e.Rank(p, opps, topN), nil
}

// Rank scores already-normalized input.
func (e *Engine) Rank(p normalize.Profile, opps []normalize.Opportunity, topN int) []MatchResult {
	if topN <= 0 {
		topN = e.defaultTopN
	}

	results := make([]MatchResult, 0, len(opps))
	for _, o := range opps {
		results = append(results, e.Score(p, o))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.OverallMatchScore != b.OverallMatchScore {
			return a.OverallMatchScore > b.OverallMatchScore
		}
		if a.FinancialFitScore != b.FinancialFitScore {
			return a.FinancialFitScore > b.FinancialFitScore
		}
		if a.MinInvestment != b.MinInvestment {
			return a.MinInvestment < b.MinInvestment
		}
		return a.OpportunityID < b.OpportunityID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// Score computes the MatchResult for a single pair.
func (e *Engine) Score(p normalize.Profile, o normalize.Opportunity) MatchResult {
	months := o.BreakEvenMonths
	if months == 0 && e.breakEven != nil {
		months = e.breakEven.BreakEvenMonths(o.Industry)
	}

	financial := round1(FinancialFit(p, o))
	experience := round1(ExperienceFit(p, o))
	success := round1(SuccessProbability(financial, experience, months, o.SuccessRate))
	overall := round1(normalize.Clamp(e.weights.combine(financial, experience, success), 0, 100))

	result := MatchResult{
		OpportunityID:      o.ID,
		OpportunityName:    o.Name,
		Industry:           o.Industry,
		FinancialFitScore:  financial,
		ExperienceFitScore: experience,
		SuccessProbability: success,
		OverallMatchScore:  overall,
		MatchLevel:         LevelFor(overall),
		Strengths:          Strengths(financial, experience, success, e.strengthThreshold),
		Concerns:           Concerns(financial, experience, success),
		Recommendation:     Recommendation(overall),
		MinInvestment:      o.TotalInvestment.Min,
		Attributes:         o.Attributes,
	}
	if months > 0 {
		result.EstimatedBreakEvenMonths = &months
	}
	return result
}
