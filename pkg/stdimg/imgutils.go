package stdimg

import (
	"image"
	"image/color"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
)

// ToArray reduces src to a single 16-bit luminance channel and returns it as
// a (height, width) float64 array. Gray and Gray16 images are copied without
// conversion.
func ToArray(src image.Image) *tonyscale.Array {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	data := make([]float64, w*h)
	idx := 0
	switch img := src.(type) {
	case *image.Gray16:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				data[idx] = float64(img.Gray16At(x, y).Y)
				idx++
			}
		}
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				data[idx] = float64(img.GrayAt(x, y).Y)
				idx++
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.Gray16Model.Convert(src.At(x, y)).(color.Gray16)
				data[idx] = float64(g.Y)
				idx++
			}
		}
	}
	return &tonyscale.Array{Shape: []int{h, w}, Data: data}
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloatToUint8 clamps v to [0,255]
func clampFloatToUint8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
