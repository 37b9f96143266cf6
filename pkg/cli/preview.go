package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
)

// Terminal preview for the scaled image.
//
// Backends, in detection order:
//   - iTerm2-style OSC 1337 inline images (iTerm2, WezTerm, Warp, VSCode, ...)
//   - kitty graphics protocol (kitty, ghostty, Konsole)
//   - chafa, if it is on PATH
//
// TONYSCALE_PREVIEW_BACKEND=inline|kitty|chafa forces one backend.

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby", "Bobcat":
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wezterm") || strings.Contains(term, "tabby")
}

func hasChafa() bool {
	_, err := exec.LookPath("chafa")
	return err == nil
}

// previewSize is the placement requested from the terminal, in character
// cells and approximate pixels.
type previewSize struct {
	Cols, Rows              int
	PixelWidth, PixelHeight int
}

// computePreviewSize fits the image into at most 80x40 cells, never scaling
// up, assuming 8x16 pixel cells.
func computePreviewSize(img image.Image) previewSize {
	const (
		charW, charH     = 8, 16
		minCols, minRows = 6, 3
		maxCols, maxRows = 80, 40
	)
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := clamp(int(math.Round(float64(w)*scale/charW)), minCols, maxCols)
	rows := clamp(int(math.Round(float64(h)*scale/charH)), minRows, maxRows)
	return previewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PreviewImage shows img inline in the terminal attached to w.
func PreviewImage(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("nothing to preview")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	size := computePreviewSize(img)
	blob := buf.Bytes()

	backend := strings.ToLower(os.Getenv("TONYSCALE_PREVIEW_BACKEND"))
	if backend == "" {
		switch {
		case isInlineImageCapable():
			backend = "inline"
		case isKitty():
			backend = "kitty"
		case hasChafa():
			backend = "chafa"
		default:
			return fmt.Errorf("no supported terminal preview backend")
		}
	}
	debugf("preview backend %s, %dx%d cells, %d bytes", backend, size.Cols, size.Rows, len(blob))

	switch backend {
	case "inline", "iterm", "wezterm":
		return sendInlineImage(w, blob, size)
	case "kitty":
		return sendKittyImage(w, blob, size)
	case "chafa":
		return sendChafaImage(w, blob, size)
	}
	return fmt.Errorf("unknown preview backend %q", backend)
}

// sendInlineImage emits an OSC 1337 File sequence.
func sendInlineImage(w io.Writer, blob []byte, size previewSize) error {
	enc := base64.StdEncoding.EncodeToString(blob)
	seq := fmt.Sprintf("\x1b]1337;File=name=preview.png;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n",
		len(blob), size.PixelWidth, size.PixelHeight, enc)
	_, err := io.WriteString(w, seq)
	return err
}

// sendKittyImage sends the PNG with the kitty graphics protocol in base64
// chunks of at most 4096 bytes. Only the first chunk carries control keys.
func sendKittyImage(w io.Writer, blob []byte, size previewSize) error {
	const chunkSize = 4096
	enc := base64.StdEncoding.EncodeToString(blob)
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := pos + chunkSize
		if end > len(enc) {
			end = len(enc)
		}
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(w, seq); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// sendChafaImage pipes the PNG through chafa.
func sendChafaImage(w io.Writer, blob []byte, size previewSize) error {
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("chafa not found in PATH: %w", err)
	}
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(blob)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	return nil
}
