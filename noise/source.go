// Package noise provides the base 2D noise primitives that height maps are
// layered from. Every [Source] is pure: the same coordinates always return
// the same value.
package noise

import (
	"fmt"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is a deterministic 2D noise primitive.
type Source interface {
	Noise2D(x, y float64) float64
}

// Func adapts an ordinary function to a [Source].
type Func func(x, y float64) float64

func (fn Func) Noise2D(x, y float64) float64 { return fn(x, y) }

// Kind names a [Source] implementation.
type Kind string

const (
	KindSimplex     Kind = "simplex"
	KindOpenSimplex Kind = "opensimplex"
	KindPerlin      Kind = "perlin"
)

// Kinds lists every recognised [Kind].
var Kinds = []Kind{KindSimplex, KindOpenSimplex, KindPerlin}

// New returns the [Source] named by kind, seeded with seed. An empty kind
// selects [KindSimplex].
func New(kind Kind, seed int64) (Source, error) {
	switch kind {
	case "", KindSimplex:
		return NewSimplex(seed), nil
	case KindOpenSimplex:
		return NewOpenSimplex(seed), nil
	case KindPerlin:
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// OpenSimplex is Kurt Spencer's OpenSimplex noise, values in roughly [-1, 1].
type OpenSimplex struct {
	os opensimplex.Noise
}

func NewOpenSimplex(seed int64) OpenSimplex {
	return OpenSimplex{os: opensimplex.New(seed)}
}

func (n OpenSimplex) Noise2D(x, y float64) float64 { return n.os.Eval2(x, y) }

// Perlin is classic single-octave gradient noise. Octave layering is left
// to the height map synthesizer, so the library's own harmonic sum is fixed
// at one term.
type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) Perlin {
	return Perlin{p: perlin.NewPerlin(2, 2, 1, seed)}
}

func (n Perlin) Noise2D(x, y float64) float64 { return n.p.Noise2D(x, y) }
