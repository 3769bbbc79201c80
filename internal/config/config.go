// Package config loads heightfield settings from JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"runtime.link/api/xray"

	"the.quetzal.community/heightfield/colormap"
	"the.quetzal.community/heightfield/heightfield"
	"the.quetzal.community/heightfield/noise"
)

type Config struct {
	Map heightfield.Parameters `json:"map"`

	Noise struct {
		Kind noise.Kind `json:"kind"`
		Seed int64      `json:"seed"`
	} `json:"noise"`

	Gradient struct {
		Low  colorful.HexColor `json:"low"`
		High colorful.HexColor `json:"high"`
	} `json:"gradient"`

	Server struct {
		Address      string `json:"address"`
		MaxDimension int    `json:"max_dimension"`
		MaxOctaves   int    `json:"max_octaves"`
	} `json:"server"`
}

// Default settings for a 512×512 grayscale map.
func Default() Config {
	var c Config
	c.Map = heightfield.Parameters{
		Width:       512,
		Height:      512,
		Scale:       64,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
	c.Noise.Kind = noise.KindSimplex
	c.Gradient.Low = colorful.HexColor(colorful.Color{R: 0, G: 0, B: 0})
	c.Gradient.High = colorful.HexColor(colorful.Color{R: 1, G: 1, B: 1})
	c.Server.Address = ":8080"
	c.Server.MaxDimension = 2048
	c.Server.MaxOctaves = 10
	return c
}

// Decode reads a JSON document over the defaults. Unknown fields are
// rejected so that typos do not pass silently.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, xray.New(err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load decodes the JSON file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, xray.New(err)
	}
	defer f.Close()
	return Decode(f)
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Map.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := noise.New(c.Noise.Kind, 0); err != nil {
		errs = append(errs, err)
	}
	if c.Server.MaxDimension <= 0 {
		errs = append(errs, fmt.Errorf("server.max_dimension must be positive, got %d", c.Server.MaxDimension))
	}
	if c.Server.MaxOctaves < 0 {
		errs = append(errs, fmt.Errorf("server.max_octaves must not be negative, got %d", c.Server.MaxOctaves))
	}
	return errors.Join(errs...)
}

// Source builds the configured noise primitive.
func (c Config) Source() (noise.Source, error) {
	return noise.New(c.Noise.Kind, c.Noise.Seed)
}

// ColorGradient returns the configured gradient; both ends are opaque.
func (c Config) ColorGradient() *colormap.Gradient {
	return &colormap.Gradient{
		Low:  colormap.Opaque(colorful.Color(c.Gradient.Low)),
		High: colormap.Opaque(colorful.Color(c.Gradient.High)),
	}
}
