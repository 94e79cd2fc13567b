package models

// MatchRequest is the shared input of the ranking worker and POST /v1/matches.
// The profile is given inline or by ID; the catalog inline or by query.
type MatchRequest struct {
	ProfileID    string                `json:"profileId,omitempty"`
	Profile      *InvestorProfileInput `json:"profile,omitempty"`
	Catalog      []OpportunityInput    `json:"catalog,omitempty"`
	CatalogQuery *CatalogQuery         `json:"catalogQuery,omitempty"`
	TopN         int                   `json:"topN,omitempty"`
}
