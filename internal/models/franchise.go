// internal/models/franchise.go
package models

// RangeInput is a raw min/max pair. Either bound may be a JSON number, a
// numeric string such as "1,250,000", or absent.
type RangeInput struct {
	Min interface{} `json:"min,omitempty"`
	Max interface{} `json:"max,omitempty"`
}

// OpportunityInput is a catalog record as delivered by the marketplace.
type OpportunityInput struct {
	ID                      string                 `json:"id"`
	Name                    string                 `json:"name,omitempty"`
	Industry                string                 `json:"industry"`
	TotalInvestment         RangeInput             `json:"totalInvestment"`
	BreakEvenMonthsEstimate interface{}            `json:"breakEvenMonthsEstimate,omitempty"`
	SuccessRate             interface{}            `json:"successRate,omitempty"`
	OwnerInvolvement        string                 `json:"ownerInvolvement,omitempty"`
	Attributes              map[string]interface{} `json:"attributes,omitempty"`
}

// CatalogQuery narrows the catalog loaded from storage.
type CatalogQuery struct {
	Industry      string  `json:"industry,omitempty"`
	InvestmentMin float64 `json:"investmentMin,omitempty"`
	InvestmentMax float64 `json:"investmentMax,omitempty"`
	Limit         int     `json:"limit,omitempty"`
}
