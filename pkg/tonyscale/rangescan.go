package tonyscale

import (
	"fmt"
	"math"
)

// scanRange returns the extremes of data in one pass. NaN and ±Inf are
// rejected because they leave the bin width undefined.
func scanRange(data []float64) (float64, float64, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: array is empty", ErrValidation)
	}
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: element %d is not finite (%v)", ErrValidation, i, v)
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV, nil
}
