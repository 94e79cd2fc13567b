package models

// ProjectionParamsInput carries the raw parameters for a scenario set.
// Percentages are whole percents (6 means 6%).
type ProjectionParamsInput struct {
	InitialInvestment   interface{} `json:"initialInvestment"`
	FranchiseFee        interface{} `json:"franchiseFee,omitempty"`
	RoyaltyPercent      interface{} `json:"royaltyPercent,omitempty"`
	MarketingFeePercent interface{} `json:"marketingFeePercent,omitempty"`
	IndustryKey         string      `json:"industryKey"`
	LocationTier        string      `json:"locationTier"`
	HorizonYears        interface{} `json:"horizonYears,omitempty"`
}
