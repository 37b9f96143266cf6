package tonyscale

import (
	"errors"
	"math"
	"testing"
)

func TestBinningTruncatesTowardZero(t *testing.T) {
	cases := []struct {
		min, max   float64
		hMin, hMax float64
	}{
		{0, 10, -1, 11},
		{1.7, 3.2, 0, 4},
		// floor would give -2 and ceil would give 2
		{-0.5, 0.4, -1, 1},
		{-2.5, -1.5, -3, 0},
		{-100.9, -50.1, -101, -49},
	}
	for _, c := range cases {
		b := newBinning(c.min, c.max, 10)
		if b.hMin != c.hMin || b.hMax != c.hMax {
			t.Fatalf("newBinning(%v, %v) bounds = [%v, %v]; want [%v, %v]", c.min, c.max, b.hMin, b.hMax, c.hMin, c.hMax)
		}
		if want := (c.hMax - c.hMin) / 10; b.binSize != want {
			t.Fatalf("newBinning(%v, %v) binSize = %v; want %v", c.min, c.max, b.binSize, want)
		}
	}
}

func TestBucketClamps(t *testing.T) {
	b := binning{hMin: 0, hMax: 10, binSize: 1, bins: 10}
	cases := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{0.99, 0},
		{5.5, 5},
		{9.999, 9},
		{10, 9}, // q == bins
		{1e9, 9},
		{-3, 0},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := b.bucket(c.v); got != c.want {
			t.Fatalf("bucket(%v) = %d; want %d", c.v, got, c.want)
		}
	}
}

func TestBucketOverflowingRange(t *testing.T) {
	b := newBinning(-math.MaxFloat64, math.MaxFloat64, 4)
	for _, v := range []float64{-math.MaxFloat64, 0, math.MaxFloat64} {
		if got := b.bucket(v); got < 0 || got > 3 {
			t.Fatalf("bucket(%v) = %d out of range", v, got)
		}
	}
}

func TestBuildHistogramCounts(t *testing.T) {
	data := []float64{0, 0, 1, 5, 9, 10}
	minV, maxV, err := scanRange(data)
	if err != nil {
		t.Fatalf("scanRange failed: %v", err)
	}
	if minV != 0 || maxV != 10 {
		t.Fatalf("scanRange = (%v, %v); want (0, 10)", minV, maxV)
	}
	// [-1, 11] in 6 buckets of width 2
	hist, err := buildHistogram(data, newBinning(minV, maxV, 6))
	if err != nil {
		t.Fatalf("buildHistogram failed: %v", err)
	}
	want := []int64{2, 1, 0, 1, 0, 2}
	var total int64
	for i := range want {
		total += hist[i]
		if hist[i] != want[i] {
			t.Fatalf("hist = %v; want %v", hist, want)
		}
	}
	if total != int64(len(data)) {
		t.Fatalf("histogram total %d; want %d", total, len(data))
	}
}

func TestAllocHistogramLimit(t *testing.T) {
	if _, err := allocHistogram(MaxBins + 1); !errors.Is(err, ErrResource) {
		t.Fatalf("allocHistogram over limit: got %v", err)
	}
	hist, err := allocHistogram(3)
	if err != nil || len(hist) != 3 {
		t.Fatalf("allocHistogram(3) = %v, %v", hist, err)
	}
}

func TestCumulateAndNormalize(t *testing.T) {
	hist := []int64{2, 0, 3, 1, 0, 4}
	cumulate(hist)
	wantCDF := []int64{2, 2, 5, 6, 6, 10}
	for i := range wantCDF {
		if hist[i] != wantCDF[i] {
			t.Fatalf("cumulate = %v; want %v", hist, wantCDF)
		}
	}
	normalize(hist, 10, 4)
	// floor(3*c/10)
	want := []int64{0, 0, 1, 1, 1, 3}
	for i := range want {
		if hist[i] != want[i] {
			t.Fatalf("normalize = %v; want %v", hist, want)
		}
	}
}

func TestNormalizeWide(t *testing.T) {
	hist := []int64{1 << 39, 1 << 40}
	normalize(hist, 1<<40, math.MaxInt64)
	if hist[0] != 1<<62-1 || hist[1] != math.MaxInt64-1 {
		t.Fatalf("normalize = %v; want [%d %d]", hist, int64(1<<62-1), int64(math.MaxInt64-1))
	}
}
