// internal/workers/franchise/rank-opportunities/models.go
package rankopportunities

import (
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

type Input = models.MatchRequest

type Output struct {
	Matches         []matching.MatchResult `json:"matches"`
	TotalCandidates int                    `json:"totalCandidates"`
}
