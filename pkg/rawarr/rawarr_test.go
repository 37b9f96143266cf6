package rawarr

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
	"github.com/klauspost/compress/zstd"
)

func encodeFloats(vals []float64) []byte {
	var b bytes.Buffer
	for _, v := range vals {
		binary.Write(&b, binary.LittleEndian, math.Float64bits(v))
	}
	return b.Bytes()
}

func TestParseShape(t *testing.T) {
	cases := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"4096,4096", []int{4096, 4096}, true},
		{"3x64x64", []int{3, 64, 64}, true},
		{" 10 ", []int{10}, true},
		{"", nil, false},
		{"2,0", nil, false},
		{"a,b", nil, false},
		{"3037000500,3037000500", nil, false},
		{"1048576x1048576x1048576", nil, false},
	}
	for _, c := range cases {
		got, err := ParseShape(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ParseShape(%q) err = %v; want ok=%v", c.in, err, c.ok)
		}
		if !c.ok {
			continue
		}
		if len(got) != len(c.want) {
			t.Fatalf("ParseShape(%q) = %v; want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("ParseShape(%q) = %v; want %v", c.in, got, c.want)
			}
		}
	}
}

func TestDecodeLengthChecks(t *testing.T) {
	raw := encodeFloats([]float64{1, 2, 3})
	if _, err := Decode(bytes.NewReader(raw), []int{4}); err == nil {
		t.Fatalf("expected short array error")
	}
	if _, err := Decode(bytes.NewReader(raw), []int{2}); err == nil {
		t.Fatalf("expected trailing data error")
	}
	a, err := Decode(bytes.NewReader(raw), []int{3})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if a.Data[2] != 3 {
		t.Fatalf("Decode = %v", a.Data)
	}
}

func TestDecodeOversizedShape(t *testing.T) {
	// the element count overflows int
	if _, err := Decode(bytes.NewReader(nil), []int{3037000500, 3037000500}); err == nil {
		t.Fatalf("expected error for overflowing shape")
	}
	// valid count, but far more than the reader holds
	raw := encodeFloats([]float64{1, 2})
	if _, err := Decode(bytes.NewReader(raw), []int{100000, 100000}); err == nil {
		t.Fatalf("expected short array error for oversized shape")
	}
}

func TestLoadSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.f64")
	if err := os.WriteFile(path, encodeFloats([]float64{1, 2}), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if _, err := Load(path, []int{100000, 100000}); err == nil {
		t.Fatalf("expected size mismatch error")
	}
	if _, err := Load(path, []int{3037000500, 3037000500}); err == nil {
		t.Fatalf("expected error for overflowing shape")
	}
	a, err := Load(path, []int{2})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.Data[1] != 2 {
		t.Fatalf("Load = %v", a.Data)
	}
}

func TestSaveFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bad.i64", "bad.i64.zst"} {
		path := filepath.Join(dir, name)
		if err := Save(path, nil); err == nil {
			t.Fatalf("Save %s: expected error for nil array", name)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("Save %s left a file behind (stat err %v)", name, err)
		}
	}
}

func TestLoadCompressedAndScale(t *testing.T) {
	dir := t.TempDir()
	vals := []float64{-4, 0.5, 2, 2, 7.25, 100}

	var zbuf bytes.Buffer
	zw, err := zstd.NewWriter(&zbuf)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	zw.Write(encodeFloats(vals))
	zw.Close()
	in := filepath.Join(dir, "in.f64.zst")
	if err := os.WriteFile(in, zbuf.Bytes(), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	a, err := Load(in, []int{2, 3})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, v := range vals {
		if a.Data[i] != v {
			t.Fatalf("Load = %v; want %v", a.Data, vals)
		}
	}

	out, err := tonyscale.ScaleImage(a, 1000, 6)
	if err != nil {
		t.Fatalf("ScaleImage failed: %v", err)
	}
	for _, name := range []string{"out.i64", "out.i64.zst"} {
		path := filepath.Join(dir, name)
		if err := Save(path, out); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if name == "out.i64.zst" {
			zr, err := zstd.NewReader(nil)
			if err != nil {
				t.Fatalf("zstd reader: %v", err)
			}
			b, err = zr.DecodeAll(b, nil)
			zr.Close()
			if err != nil {
				t.Fatalf("decompress %s: %v", name, err)
			}
		}
		if len(b) != 8*len(out.Data) {
			t.Fatalf("%s: %d bytes; want %d", name, len(b), 8*len(out.Data))
		}
		for i, want := range out.Data {
			if got := int64(binary.LittleEndian.Uint64(b[8*i:])); got != want {
				t.Fatalf("%s: element %d = %d; want %d", name, i, got, want)
			}
		}
	}
}
