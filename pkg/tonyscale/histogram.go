package tonyscale

import (
	"fmt"
	"math"
)

// MaxBins caps the histogram length. Larger requests fail with ErrResource
// before anything is allocated.
const MaxBins = 1 << 30

// binning holds the bucket geometry derived once per call.
type binning struct {
	hMin    float64
	hMax    float64
	binSize float64
	bins    int
}

// newBinning widens [minV, maxV] by one on each side and truncates toward
// zero, so for negative extremes the bounds are not floor/ceil.
func newBinning(minV, maxV float64, bins int) binning {
	hMin := math.Trunc(minV - 1.0)
	hMax := math.Trunc(maxV + 1.0)
	return binning{
		hMin:    hMin,
		hMax:    hMax,
		binSize: (hMax - hMin) / float64(bins),
		bins:    bins,
	}
}

// bucket returns floor((v-hMin)/binSize) clamped to [0, bins-1].
func (b binning) bucket(v float64) int {
	q := (v - b.hMin) / b.binSize
	// !(q >= 0) also catches NaN from Inf/Inf when the range overflows.
	if !(q >= 0) {
		return 0
	}
	if q >= float64(b.bins) {
		return b.bins - 1
	}
	return int(q)
}

// allocHistogram returns a zeroed histogram or ErrResource.
func allocHistogram(bins int) (hist []int64, err error) {
	if bins > MaxBins {
		return nil, fmt.Errorf("%w: %d bins exceeds limit of %d", ErrResource, bins, MaxBins)
	}
	defer func() {
		if r := recover(); r != nil {
			hist = nil
			err = fmt.Errorf("%w: %d bins: %v", ErrResource, bins, r)
		}
	}()
	return make([]int64, bins), nil
}

// buildHistogram counts every element of data into its bucket.
func buildHistogram(data []float64, b binning) ([]int64, error) {
	hist, err := allocHistogram(b.bins)
	if err != nil {
		return nil, err
	}
	for _, v := range data {
		hist[b.bucket(v)]++
	}
	return hist, nil
}
