package sink

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func gradientBuffer(width, height int) []float32 {
	buf := make([]float32, 0, width*height*channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float32(x) / float32(max(width-1, 1))
			buf = append(buf, v, v, v, 1)
		}
	}
	return buf
}

func TestMemory(t *testing.T) {
	var m Memory
	buf := gradientBuffer(3, 2)
	if err := m.Accept(3, 2, buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 42 // the sink must not alias the caller's buffer
	w, h, got := m.Texture()
	if w != 3 || h != 2 || len(got) != 24 || got[0] != 0 {
		t.Fatalf("Texture = %dx%d %v", w, h, got)
	}
	if m.Uploads() != 1 {
		t.Fatalf("Uploads = %d, want 1", m.Uploads())
	}
}

func TestMemoryEmpty(t *testing.T) {
	var m Memory
	if err := m.Accept(0, 5, nil); err != nil {
		t.Fatal(err)
	}
	w, h, got := m.Texture()
	if w != 0 || h != 5 || len(got) != 0 {
		t.Fatalf("Texture = %dx%d %v", w, h, got)
	}
}

func TestSizeMismatch(t *testing.T) {
	var m Memory
	if err := m.Accept(2, 2, make([]float32, 15)); err == nil {
		t.Fatal("expected an error for a short buffer")
	}
	if err := (PNG{Writer: new(bytes.Buffer)}).Accept(2, 2, make([]float32, 17)); err == nil {
		t.Fatal("expected an error for a long buffer")
	}
}

func TestImage(t *testing.T) {
	img, err := Image(2, 1, []float32{0, 0.5, 1, 1, 1.5, -1, 0.25, 0})
	if err != nil {
		t.Fatal(err)
	}
	c := img.NRGBAAt(0, 0)
	if c.R != 0 || c.G != 128 || c.B != 255 || c.A != 255 {
		t.Fatalf("pixel (0, 0) = %v", c)
	}
	c = img.NRGBAAt(1, 0)
	if c.R != 255 || c.G != 0 || c.B != 64 || c.A != 0 {
		t.Fatalf("pixel (1, 0) = %v", c)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	var out bytes.Buffer
	if err := (PNG{Writer: &out}).Accept(4, 3, gradientBuffer(4, 3)); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("decoded bounds = %v", b)
	}
	r, _, _, _ := img.At(3, 2).RGBA()
	if r != 0xffff {
		t.Fatalf("right edge red = %#x, want 0xffff", r)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	if err := (File{Path: path}).Accept(2, 2, gradientBuffer(2, 2)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeFloats(t *testing.T) {
	values := []float32{0, 1, -2.5, 0.125}
	data := EncodeFloats(values)
	if len(data) != 16 {
		t.Fatalf("encoded %d bytes, want 16", len(data))
	}
	back := DecodeFloats(data)
	for i := range values {
		if back[i] != values[i] {
			t.Fatalf("value %d = %v, want %v", i, back[i], values[i])
		}
	}
}
