package heightfield

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"the.quetzal.community/heightfield/noise"
)

// Synthesize layers params.Octaves octaves of src into a raw height map.
// Rows are filled concurrently; each cell depends only on its coordinates,
// so the result is identical for any scheduling.
func Synthesize(ctx context.Context, params Parameters, src noise.Source) (Map, error) {
	if err := params.Validate(); err != nil {
		return Map{}, err
	}
	raw := NewMap(params.Width, params.Height)
	if raw.Empty() || params.Octaves == 0 {
		return raw, nil
	}
	offsets := OctaveOffsets(params.Seed, params.Octaves, params.Offset)
	var (
		halfWidth  = float64(params.Width) / 2
		halfHeight = float64(params.Height) / 2
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := range params.Height {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := raw.Row(y)
			cy := float64(y) - halfHeight
			for x := range row {
				cx := float64(x) - halfWidth
				var (
					amplitude = 1.0
					frequency = 1.0
					height    = 0.0
				)
				for _, offset := range offsets {
					// Conversions round each product, preventing fused
					// multiply-adds that would differ across architectures.
					sX := float64(cx/params.Scale*frequency) + offset.X
					sY := float64(cy/params.Scale*frequency) + offset.Y
					height += float64(src.Noise2D(sX, sY) * amplitude)
					amplitude *= params.Persistence
					frequency *= params.Lacunarity
				}
				if math.IsNaN(height) || math.IsInf(height, 0) {
					return &NumericDomainError{X: x, Y: y, Value: height}
				}
				row[x] = height
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Map{}, err
	}
	return raw, nil
}

// Extent returns the smallest and largest height in m. It is a separate
// reduction over the finished grid: rows are reduced independently and the
// partial results folded afterwards. An empty map reports (0, 0).
func Extent(m Map) (lo, hi float64) {
	if m.Empty() {
		return 0, 0
	}
	type bounds struct{ lo, hi float64 }
	partial := make([]bounds, m.Height)
	workers := min(runtime.GOMAXPROCS(0), m.Height)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		go func() {
			defer wg.Done()
			for y := w; y < m.Height; y += workers {
				row := m.Row(y)
				b := bounds{row[0], row[0]}
				for _, v := range row[1:] {
					b.lo = math.Min(b.lo, v)
					b.hi = math.Max(b.hi, v)
				}
				partial[y] = b
			}
		}()
	}
	wg.Wait()
	lo, hi = partial[0].lo, partial[0].hi
	for _, b := range partial[1:] {
		lo = math.Min(lo, b.lo)
		hi = math.Max(hi, b.hi)
	}
	return lo, hi
}
