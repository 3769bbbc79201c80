package heightfield

import (
	"context"

	"the.quetzal.community/heightfield/noise"
)

// Result holds every stage of one height map generation.
type Result struct {
	Raw        Map     `json:"-"`
	Normalized Map     `json:"normalized"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Generate synthesizes, reduces and normalizes a height map.
func Generate(ctx context.Context, params Parameters, src noise.Source) (Result, error) {
	raw, err := Synthesize(ctx, params, src)
	if err != nil {
		return Result{}, err
	}
	lo, hi := Extent(raw)
	return Result{
		Raw:        raw,
		Normalized: Normalize(raw, lo, hi),
		Min:        lo,
		Max:        hi,
	}, nil
}
