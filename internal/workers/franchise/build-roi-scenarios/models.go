// internal/workers/franchise/build-roi-scenarios/models.go
package buildroiscenarios

import (
	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
)

type Input = models.ProjectionParamsInput

type Output = projection.ScenarioSet
