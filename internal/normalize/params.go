package normalize

import "github.com/akkash/bizsearch-new-sub002/internal/models"

const (
	DefaultHorizonYears = 5
	MaxHorizonYears     = 30
)

// ProjectionParams are validated inputs for the scenario simulator.
// Percent fields are whole percents.
type ProjectionParams struct {
	InitialInvestment   float64 `json:"initialInvestment"`
	FranchiseFee        float64 `json:"franchiseFee"`
	RoyaltyPercent      float64 `json:"royaltyPercent"`
	MarketingFeePercent float64 `json:"marketingFeePercent"`
	IndustryKey         string  `json:"industryKey"`
	LocationTier        string  `json:"locationTier"`
	HorizonYears        int     `json:"horizonYears"`
}

// NormalizeParams validates projection parameters. Benchmark keys are only
// checked for presence here; resolution happens against a benchmark table.
func NormalizeParams(in models.ProjectionParamsInput) (ProjectionParams, error) {
	var p ProjectionParams
	var err error

	if p.InitialInvestment, err = number("initialInvestment", in.InitialInvestment); err != nil {
		return ProjectionParams{}, err
	}
	if p.InitialInvestment <= 0 {
		return ProjectionParams{}, invalid("initialInvestment", "must be greater than zero")
	}
	if p.FranchiseFee, err = number("franchiseFee", in.FranchiseFee); err != nil {
		return ProjectionParams{}, err
	}
	if p.RoyaltyPercent, err = percent("royaltyPercent", in.RoyaltyPercent); err != nil {
		return ProjectionParams{}, err
	}
	if p.MarketingFeePercent, err = percent("marketingFeePercent", in.MarketingFeePercent); err != nil {
		return ProjectionParams{}, err
	}

	p.IndustryKey = enumKey(in.IndustryKey)
	if p.IndustryKey == "" {
		return ProjectionParams{}, invalid("industryKey", "is required")
	}
	p.LocationTier = enumKey(in.LocationTier)
	if p.LocationTier == "" {
		return ProjectionParams{}, invalid("locationTier", "is required")
	}

	if p.HorizonYears, err = integer("horizonYears", in.HorizonYears); err != nil {
		return ProjectionParams{}, err
	}
	if p.HorizonYears == 0 {
		p.HorizonYears = DefaultHorizonYears
	}
	if p.HorizonYears > MaxHorizonYears {
		return ProjectionParams{}, invalid("horizonYears", "must be at most %d", MaxHorizonYears)
	}

	return p, nil
}

func percent(field string, raw interface{}) (float64, error) {
	v, err := number(field, raw)
	if err != nil {
		return 0, err
	}
	if v > 100 {
		return 0, invalid(field, "must be at most 100, got %v", v)
	}
	return v, nil
}
