package matching

import (
	"fmt"
	"math"
)

// Weights are the overall-score coefficients for the three sub-scores.
type Weights struct {
	Financial  float64 `json:"financial" yaml:"financial"`
	Experience float64 `json:"experience" yaml:"experience"`
	Success    float64 `json:"success" yaml:"success"`
}

const weightTolerance = 0.001

// DefaultWeights ranks financial fit first because it gates closing a deal.
// Success probability is weighted lowest since it already folds in the
// other two.
func DefaultWeights() Weights {
	return Weights{
		Financial:  0.45,
		Experience: 0.35,
		Success:    0.20,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Financial + w.Experience + w.Success
}

// Validate checks that every weight is non-negative and the total is 1.
func (w Weights) Validate() error {
	if w.Financial < 0 || w.Experience < 0 || w.Success < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

func (w Weights) combine(financial, experience, success float64) float64 {
	return financial*w.Financial + experience*w.Experience + success*w.Success
}
