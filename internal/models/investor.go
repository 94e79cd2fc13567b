package models

// InvestorProfileInput is a possibly partial investor profile.
type InvestorProfileInput struct {
	ID                        string      `json:"id,omitempty"`
	Budget                    *RangeInput `json:"budget,omitempty"`
	LiquidCapital             interface{} `json:"liquidCapital,omitempty"`
	NetWorth                  interface{} `json:"netWorth,omitempty"`
	ManagementExperienceYears interface{} `json:"managementExperienceYears,omitempty"`
	TimeCommitment            string      `json:"timeCommitment,omitempty"`
}
