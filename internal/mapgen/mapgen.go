// Package mapgen wires height map synthesis, coloring and texture upload
// together. It is the only package that talks to a [Sink].
package mapgen

import (
	"context"
	"fmt"

	"the.quetzal.community/heightfield/colormap"
	"the.quetzal.community/heightfield/heightfield"
	"the.quetzal.community/heightfield/noise"
)

const debug = false

// Channels per pixel in a sink buffer.
const Channels = 4

// Sink receives finished textures as row-major RGBA float buffers with
// len(rgba) == width*height*Channels.
type Sink interface {
	Accept(width, height int, rgba []float32) error
}

// SinkFunc adapts an ordinary function to a [Sink].
type SinkFunc func(width, height int, rgba []float32) error

func (fn SinkFunc) Accept(width, height int, rgba []float32) error { return fn(width, height, rgba) }

// Generator produces height map textures.
type Generator struct {
	Noise noise.Source
	Sink  Sink

	// Gradient colors normalized heights; nil selects [colormap.Grayscale].
	Gradient *colormap.Gradient

	Print func(string, ...any)
}

// Result holds every stage of a generation.
type Result struct {
	heightfield.Result

	Colors colormap.Map
	RGBA   []float32
}

// Render runs the pipeline without uploading anything.
func (g *Generator) Render(ctx context.Context, params heightfield.Parameters) (Result, error) {
	if g.Noise == nil {
		return Result{}, fmt.Errorf("mapgen: no noise source")
	}
	heights, err := heightfield.Generate(ctx, params, g.Noise)
	if err != nil {
		return Result{}, err
	}
	gradient := colormap.Grayscale
	if g.Gradient != nil {
		gradient = *g.Gradient
	}
	colors := colormap.Apply(heights.Normalized, gradient)
	if debug {
		g.print("rendered %dx%d map, raw extent [%g, %g]\n", params.Width, params.Height, heights.Min, heights.Max)
	}
	return Result{
		Result: heights,
		Colors: colors,
		RGBA:   Flatten(colors),
	}, nil
}

// Generate renders params and hands the texture to the sink.
func (g *Generator) Generate(ctx context.Context, params heightfield.Parameters) error {
	if g.Sink == nil {
		return fmt.Errorf("mapgen: no sink")
	}
	result, err := g.Render(ctx, params)
	if err != nil {
		return err
	}
	if err := g.Sink.Accept(result.Colors.Width, result.Colors.Height, result.RGBA); err != nil {
		return fmt.Errorf("mapgen: sink: %w", err)
	}
	g.print("generated %dx%d height map (seed %d, %d octaves)\n", params.Width, params.Height, params.Seed, params.Octaves)
	return nil
}

func (g *Generator) print(format string, args ...any) {
	if g.Print != nil {
		g.Print(format, args...)
	}
}

// Flatten interleaves the pixels of m as RGBA, index (y*width+x)*Channels.
func Flatten(m colormap.Map) []float32 {
	buf := make([]float32, 0, len(m.Pixels)*Channels)
	for _, c := range m.Pixels {
		buf = append(buf, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	}
	return buf
}
