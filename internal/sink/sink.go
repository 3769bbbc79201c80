// Package sink provides texture destinations for generated height maps.
package sink

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"runtime.link/api/xray"
)

const channels = 4

func checkSize(width, height int, rgba []float32) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if len(rgba) != width*height*channels {
		return fmt.Errorf("texture buffer holds %d floats, want %d for %dx%d", len(rgba), width*height*channels, width, height)
	}
	return nil
}

// Memory keeps a copy of the most recent texture.
type Memory struct {
	mutex  sync.Mutex
	width  int
	height int
	rgba   []float32
	count  int
}

func (m *Memory) Accept(width, height int, rgba []float32) error {
	if err := checkSize(width, height, rgba); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.width, m.height = width, height
	m.rgba = append(m.rgba[:0], rgba...)
	m.count++
	return nil
}

// Texture returns a copy of the last accepted texture.
func (m *Memory) Texture() (width, height int, rgba []float32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.width, m.height, append([]float32(nil), m.rgba...)
}

// Uploads reports how many textures have been accepted.
func (m *Memory) Uploads() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.count
}

// Image converts an RGBA float buffer into an 8-bit image.
func Image(width, height int, rgba []float32) (*image.NRGBA, error) {
	if err := checkSize(width, height, rgba); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * channels
			img.SetNRGBA(x, y, color.NRGBA{
				R: quantize(rgba[i+0]),
				G: quantize(rgba[i+1]),
				B: quantize(rgba[i+2]),
				A: quantize(rgba[i+3]),
			})
		}
	}
	return img, nil
}

func quantize(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}

// PNG encodes every accepted texture onto Writer.
type PNG struct {
	Writer io.Writer
}

func (p PNG) Accept(width, height int, rgba []float32) error {
	if width == 0 || height == 0 {
		return checkSize(width, height, rgba) // png cannot encode an empty image
	}
	img, err := Image(width, height, rgba)
	if err != nil {
		return err
	}
	if err := png.Encode(p.Writer, img); err != nil {
		return xray.New(err)
	}
	return nil
}

// File writes each accepted texture to Path as a PNG, replacing any
// previous contents.
type File struct {
	Path string
}

func (f File) Accept(width, height int, rgba []float32) error {
	if err := checkSize(width, height, rgba); err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return xray.New(errors.New("cannot write an empty texture to " + f.Path))
	}
	file, err := os.Create(f.Path)
	if err != nil {
		return xray.New(err)
	}
	if err := errors.Join(PNG{Writer: file}.Accept(width, height, rgba), file.Close()); err != nil {
		return xray.New(err)
	}
	return nil
}
