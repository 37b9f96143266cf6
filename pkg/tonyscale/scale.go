// Package tonyscale implements histogram-equalization intensity scaling: every
// element of a float64 array is replaced by one of a small number of color
// indices so that the indices are spread as evenly as the data allows.
//
// The transform runs four forward passes over the input: a min/max scan, a
// fixed-width histogram over the widened range, a cumulative distribution
// rescaled to the color count, and a remap of every element through that
// table. Nothing is kept between calls.
package tonyscale

import (
	"fmt"
	"math"
)

const (
	// DefaultBins is the histogram resolution used when none is given.
	DefaultBins = 100000
	// DefaultColors is the number of output levels used when none is given.
	DefaultColors = 256
)

// Options tunes a transform. Zero fields take their defaults.
type Options struct {
	Bins   int
	Colors int
}

func (o *Options) resolve() (int, int, error) {
	bins, colors := DefaultBins, DefaultColors
	if o != nil {
		if o.Bins != 0 {
			bins = o.Bins
		}
		if o.Colors != 0 {
			colors = o.Colors
		}
	}
	if err := checkParams(bins, colors); err != nil {
		return 0, 0, err
	}
	return bins, colors, nil
}

func checkParams(bins, colors int) error {
	if bins < 1 {
		return fmt.Errorf("%w: n_bins must be >= 1, got %d", ErrValidation, bins)
	}
	if colors < 1 {
		return fmt.Errorf("%w: n_colors must be >= 1, got %d", ErrValidation, colors)
	}
	return nil
}

// Mapping is the equalization fitted to one array: the bucket geometry and
// the color index of every bucket.
type Mapping struct {
	bin    binning
	lut    []int64
	colors int
}

// Fit scans a, builds its histogram and turns it into a color lookup table.
func Fit(a *Array, opts *Options) (*Mapping, error) {
	bins, colors, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return fit(a, bins, colors)
}

func fit(a *Array, bins, colors int) (*Mapping, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	minV, maxV, err := scanRange(a.Data)
	if err != nil {
		return nil, err
	}
	b := newBinning(minV, maxV, bins)
	hist, err := buildHistogram(a.Data, b)
	if err != nil {
		return nil, err
	}
	cumulate(hist)
	normalize(hist, int64(len(a.Data)), colors)
	return &Mapping{bin: b, lut: hist, colors: colors}, nil
}

// Apply maps every element of a through m into a new array of the same
// shape. Values outside the fitted range land in the first or last bucket.
func (m *Mapping) Apply(a *Array) (*IntArray, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	return m.apply(a)
}

// apply remaps an array that has already passed check.
func (m *Mapping) apply(a *Array) (*IntArray, error) {
	out := newIntArray(a)
	for p, v := range a.Data {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: element %d is NaN", ErrValidation, p)
		}
		out.Data[p] = m.lut[m.bin.bucket(v)]
	}
	return out, nil
}

// Color returns the color index for a single value.
func (m *Mapping) Color(v float64) int64 {
	return m.lut[m.bin.bucket(v)]
}

// Transfer returns a copy of the per-bucket color table.
func (m *Mapping) Transfer() []int64 {
	out := make([]int64, len(m.lut))
	copy(out, m.lut)
	return out
}

// Bounds returns the truncated histogram range [hMin, hMax].
func (m *Mapping) Bounds() (float64, float64) {
	return m.bin.hMin, m.bin.hMax
}

// BinSize returns the width of one bucket.
func (m *Mapping) BinSize() float64 { return m.bin.binSize }

// Bins returns the number of buckets.
func (m *Mapping) Bins() int { return m.bin.bins }

// Colors returns the number of output levels.
func (m *Mapping) Colors() int { return m.colors }

// Scale equalizes a into opts.Colors levels using an opts.Bins histogram.
// A nil opts uses DefaultBins and DefaultColors.
func Scale(a *Array, opts *Options) (*IntArray, error) {
	m, err := Fit(a, opts)
	if err != nil {
		return nil, err
	}
	return m.apply(a)
}

// ScaleImage is Scale with positional parameters and no defaulting.
func ScaleImage(a *Array, nBins, nColors int) (*IntArray, error) {
	if err := checkParams(nBins, nColors); err != nil {
		return nil, err
	}
	m, err := fit(a, nBins, nColors)
	if err != nil {
		return nil, err
	}
	return m.apply(a)
}
