// Package rawarr reads and writes headerless N-dimensional arrays: row-major,
// little-endian float64 for input and int64 for output. Files whose name ends
// in ".zst" are zstd-compressed.
package rawarr

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix marks a compressed raw file.
const ZstdSuffix = ".zst"

// ParseShape parses a comma or x separated dimension list such as
// "4096,4096" or "3x64x64".
func ParseShape(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty shape")
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == 'x' || r == 'X' })
	shape := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", f, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("dimension must be positive, got %d", d)
		}
		shape = append(shape, d)
	}
	if _, err := elementCount(shape); err != nil {
		return nil, err
	}
	return shape, nil
}

// elementCount returns prod(shape), failing when the byte size of such an
// array would not fit in an int.
func elementCount(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("dimension must not be negative, got %d", d)
		}
		if d > 0 && n > math.MaxInt/8/d {
			return 0, fmt.Errorf("shape %v is too large", shape)
		}
		n *= d
	}
	return n, nil
}

// initialCap bounds the up-front allocation in Decode; the slice grows as
// values actually arrive.
const initialCap = 1 << 16

// Decode reads exactly prod(shape) float64 values from r.
func Decode(r io.Reader, shape []int) (*tonyscale.Array, error) {
	n, err := elementCount(shape)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 0, min(n, initialCap))
	buf := make([]byte, 8)
	br := bufio.NewReader(r)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("short array: got %d of %d elements", i, n)
			}
			return nil, err
		}
		data = append(data, math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	}
	if _, err := br.ReadByte(); err == nil {
		return nil, fmt.Errorf("trailing data after %d elements", n)
	}
	return tonyscale.NewArray(shape, data)
}

// Encode writes every element of a to w.
func Encode(w io.Writer, a *tonyscale.IntArray) error {
	if a == nil {
		return fmt.Errorf("array is nil")
	}
	bw := bufio.NewWriter(w)
	buf := make([]byte, 8)
	for _, v := range a.Data {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a raw float64 array of the given shape from path.
func Load(path string, shape []int) (*tonyscale.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if !strings.HasSuffix(path, ZstdSuffix) {
		n, err := elementCount(shape)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if fi.Size() != int64(n)*8 {
			return nil, fmt.Errorf("%s: %d bytes, shape %v needs %d", path, fi.Size(), shape, int64(n)*8)
		}
	} else {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	a, err := Decode(r, shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Save writes a as raw int64 values to path. A failed write leaves no file
// behind.
func Save(path string, a *tonyscale.IntArray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(f, path, a)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func write(w io.Writer, path string, a *tonyscale.IntArray) error {
	if !strings.HasSuffix(path, ZstdSuffix) {
		return Encode(w, a)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := Encode(zw, a); err != nil {
		zw.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return zw.Close()
}
