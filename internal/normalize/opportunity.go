package normalize

import (
	"fmt"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

// OwnerInvolvement describes how operationally demanding an opportunity is.
type OwnerInvolvement string

const (
	InvolvementHandsOn  OwnerInvolvement = "hands-on"
	InvolvementLowTouch OwnerInvolvement = "low-touch"
)

var ownerInvolvements = map[string]OwnerInvolvement{
	"":          InvolvementHandsOn,
	"hands-on":  InvolvementHandsOn,
	"low-touch": InvolvementLowTouch,
}

// Opportunity is a resolved catalog record. Zero BreakEvenMonths and
// SuccessRate mean the catalog did not supply them.
type Opportunity struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name,omitempty"`
	Industry         string                 `json:"industry"`
	TotalInvestment  Range                  `json:"totalInvestment"`
	BreakEvenMonths  int                    `json:"breakEvenMonths,omitempty"`
	SuccessRate      float64                `json:"successRate,omitempty"`
	OwnerInvolvement OwnerInvolvement       `json:"ownerInvolvement"`
	Attributes       map[string]interface{} `json:"attributes,omitempty"`
}

// NormalizeOpportunity validates and coerces a raw catalog record.
func NormalizeOpportunity(in models.OpportunityInput) (Opportunity, error) {
	o := Opportunity{
		ID:         in.ID,
		Name:       in.Name,
		Industry:   in.Industry,
		Attributes: in.Attributes,
	}

	inv, err := rangeOf("totalInvestment", in.TotalInvestment.Min, in.TotalInvestment.Max)
	if err != nil {
		return Opportunity{}, err
	}
	o.TotalInvestment = inv

	if o.BreakEvenMonths, err = integer("breakEvenMonthsEstimate", in.BreakEvenMonthsEstimate); err != nil {
		return Opportunity{}, err
	}

	rate, err := number("successRate", in.SuccessRate)
	if err != nil {
		return Opportunity{}, err
	}
	if rate > 100 {
		return Opportunity{}, invalid("successRate", "must be at most 100, got %v", rate)
	}
	o.SuccessRate = rate

	involvement, ok := ownerInvolvements[enumKey(in.OwnerInvolvement)]
	if !ok {
		return Opportunity{}, invalid("ownerInvolvement", "unknown value %q", in.OwnerInvolvement)
	}
	o.OwnerInvolvement = involvement

	return o, nil
}

// NormalizeCatalog normalizes every record, failing on the first bad one.
func NormalizeCatalog(in []models.OpportunityInput) ([]Opportunity, error) {
	out := make([]Opportunity, 0, len(in))
	for i, raw := range in {
		o, err := NormalizeOpportunity(raw)
		if err != nil {
			return nil, prefixed(fmt.Sprintf("catalog[%d]", i), err)
		}
		out = append(out, o)
	}
	return out, nil
}
