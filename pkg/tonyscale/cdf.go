package tonyscale

import "math/bits"

// cumulate turns counts into a running total in place.
func cumulate(hist []int64) {
	for i := 1; i < len(hist); i++ {
		hist[i] += hist[i-1]
	}
}

// normalize rescales cumulative counts to color indices in place:
// hist[i] = floor((colors-1) * hist[i] / total).
//
// The product is formed in 128 bits. hist[i] <= total, so the high word is
// always below total and Div64 cannot overflow.
func normalize(hist []int64, total int64, colors int) {
	scale := uint64(colors - 1)
	div := uint64(total)
	for i, c := range hist {
		hi, lo := bits.Mul64(scale, uint64(c))
		q, _ := bits.Div64(hi, lo, div)
		hist[i] = int64(q)
	}
}
