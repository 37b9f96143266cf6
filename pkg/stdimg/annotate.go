package stdimg

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotate draws text onto dst with its baseline starting at x,y using the
// built-in 7x13 face.
func Annotate(dst *image.NRGBA, text string, x, y int, col color.Color) {
	if dst == nil || text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// textWidth returns the advance of text in the built-in face.
func textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}
