package stdimg

import (
	"fmt"
	"image"
	"math"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
)

// IndexToGray renders a (height, width) color index array as an 8-bit gray
// image, spreading `colors` levels evenly over [0,255].
func IndexToGray(idx *tonyscale.IntArray, colors int) (*image.Gray, error) {
	if idx == nil {
		return nil, fmt.Errorf("index array is nil")
	}
	if len(idx.Shape) != 2 {
		return nil, fmt.Errorf("gray rendering needs a 2-d array, got shape %v", idx.Shape)
	}
	if colors < 1 {
		return nil, fmt.Errorf("colors must be >= 1, got %d", colors)
	}
	h, w := idx.Shape[0], idx.Shape[1]
	out := image.NewGray(image.Rect(0, 0, w, h))
	step := 0.0
	if colors > 1 {
		step = 255.0 / float64(colors-1)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(idx.Data[y*w+x])
			out.Pix[out.PixOffset(x, y)] = uint8(clampFloatToUint8(math.Round(v * step)))
		}
	}
	return out, nil
}
