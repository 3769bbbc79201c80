// Package heightfield synthesizes fractal height maps from layered noise and
// normalizes them into [0, 1].
package heightfield

import (
	"errors"
	"fmt"
	"math"
)

// maxCells bounds Width*Height so that an RGBA buffer of the map,
// Width*Height*4 values, never overflows an int.
const maxCells = math.MaxInt / 4

// Vec2 is a pair of coordinates in noise space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Parameters describe a single height map.
type Parameters struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Seed int64 `json:"seed"`

	Scale       float64 `json:"scale"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`

	Offset Vec2 `json:"offset"`
}

// Validate reports every invalid field at once. A zero Width or Height is
// valid and describes an empty map, as is a zero Octaves (a flat map).
func (p Parameters) Validate() error {
	var errs []error
	if p.Width < 0 {
		errs = append(errs, &ParameterError{Name: "width", Value: p.Width, Reason: "must not be negative"})
	}
	if p.Height < 0 {
		errs = append(errs, &ParameterError{Name: "height", Value: p.Height, Reason: "must not be negative"})
	}
	if p.Width > 0 && p.Height > maxCells/p.Width {
		errs = append(errs, &ParameterError{Name: "size", Value: fmt.Sprintf("%dx%d", p.Width, p.Height), Reason: "too many cells to allocate"})
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 1) {
		errs = append(errs, &ParameterError{Name: "scale", Value: p.Scale, Reason: "must be a finite number greater than zero"})
	}
	if p.Octaves < 0 {
		errs = append(errs, &ParameterError{Name: "octaves", Value: p.Octaves, Reason: "must not be negative"})
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"persistence", p.Persistence},
		{"lacunarity", p.Lacunarity},
		{"offset.x", p.Offset.X},
		{"offset.y", p.Offset.Y},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = append(errs, &ParameterError{Name: f.name, Value: f.value, Reason: "must be finite"})
		}
	}
	return errors.Join(errs...)
}
