package stdimg

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
)

const plotLabelHeight = 16

// RenderTransfer plots the fitted value -> color curve of m. The x axis spans
// the histogram range [hMin, hMax], the y axis the color indices. The bottom
// strip carries the range labels.
func RenderTransfer(m *tonyscale.Mapping, width, height int) *image.NRGBA {
	if m == nil {
		return nil
	}
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 160
	}
	if height <= plotLabelHeight+1 {
		height = plotLabelHeight + 2
	}
	// create image with white background
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = 255
		out.Pix[i+1] = 255
		out.Pix[i+2] = 255
		out.Pix[i+3] = 255
	}

	lut := m.Transfer()
	bins := len(lut)
	plotH := height - plotLabelHeight
	top := float64(m.Colors() - 1)
	if top <= 0 {
		top = 1
	}
	for x := 0; x < width; x++ {
		bin := clampInt(int(math.Floor(float64(x)*float64(bins)/float64(width))), 0, bins-1)
		level := float64(lut[bin]) / top
		barH := int(math.Round(level * float64(plotH-1)))
		shade := uint8(clampFloatToUint8(level * 200))
		for y := 0; y < barH; y++ {
			i := out.PixOffset(x, plotH-1-y)
			out.Pix[i+0] = shade
			out.Pix[i+1] = shade
			out.Pix[i+2] = shade
		}
		// curve outline
		i := out.PixOffset(x, plotH-1-barH)
		out.Pix[i+0] = 200
		out.Pix[i+1] = 0
		out.Pix[i+2] = 0
	}

	lo, hi := m.Bounds()
	black := color.NRGBA{0, 0, 0, 255}
	baseline := height - 3
	Annotate(out, strconv.FormatFloat(lo, 'g', 6, 64), 2, baseline, black)
	hiLabel := strconv.FormatFloat(hi, 'g', 6, 64)
	Annotate(out, hiLabel, width-textWidth(hiLabel)-2, baseline, black)
	mid := strconv.Itoa(m.Colors()) + " colors"
	Annotate(out, mid, (width-textWidth(mid))/2, baseline, black)
	return out
}
