package stdimg

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

// Load decodes an image file, applying any EXIF orientation so the array
// matches what a viewer shows. Formats: whatever imaging decodes (PNG, JPEG,
// GIF, TIFF, BMP) plus WebP.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path in the format named by the extension. Unknown
// extensions are written as PNG.
func Save(path string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(path); err == nil {
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to write image %s: %w", path, err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return f.Close()
}
