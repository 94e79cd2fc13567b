// internal/workers/franchise/calculate-match-score/models.go
package calculatematchscore

import (
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

type Input struct {
	ProfileID   string                       `json:"profileId,omitempty"`
	Profile     *models.InvestorProfileInput `json:"profile,omitempty"`
	Opportunity models.OpportunityInput      `json:"opportunity"`
}

type Output struct {
	MatchResult matching.MatchResult `json:"matchResult"`
}
