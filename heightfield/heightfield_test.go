package heightfield

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"testing"

	"the.quetzal.community/heightfield/noise"
)

func defaultParams() Parameters {
	return Parameters{
		Width:       32,
		Height:      24,
		Seed:        1337,
		Scale:       9.5,
		Octaves:     5,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Offset:      Vec2{X: 3.25, Y: -11},
	}
}

func TestOctaveOffsetsDeterminism(t *testing.T) {
	a := OctaveOffsets(42, 8, Vec2{X: 1.5, Y: -2})
	b := OctaveOffsets(42, 8, Vec2{X: 1.5, Y: -2})
	if len(a) != 8 {
		t.Fatalf("len = %d, want 8", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("offset %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestOctaveOffsetsStream(t *testing.T) {
	rng := splitMix64{state: 42}
	offsets := OctaveOffsets(42, 3, Vec2{X: 10, Y: 20})
	for i, o := range offsets {
		x := float64(rng.next()%offsetRange) + 10
		y := float64(rng.next()%offsetRange) + 20
		if o.X != x || o.Y != y {
			t.Fatalf("offset %d = %v, want (%v, %v)", i, o, x, y)
		}
	}
}

func TestOctaveOffsetsPrefix(t *testing.T) {
	// More octaves extend the sequence without changing earlier pairs.
	short := OctaveOffsets(7, 2, Vec2{})
	long := OctaveOffsets(7, 6, Vec2{})
	for i := range short {
		if short[i] != long[i] {
			t.Fatalf("offset %d changed with octave count: %v vs %v", i, short[i], long[i])
		}
	}
}

func TestOctaveOffsetsRange(t *testing.T) {
	for _, o := range OctaveOffsets(-99, 500, Vec2{}) {
		if o.X < 0 || o.X >= offsetRange || o.Y < 0 || o.Y >= offsetRange {
			t.Fatalf("offset %v outside [0, %d)", o, offsetRange)
		}
		if o.X != math.Trunc(o.X) || o.Y != math.Trunc(o.Y) {
			t.Fatalf("offset %v is not integral", o)
		}
	}
	if got := OctaveOffsets(1, 0, Vec2{}); len(got) != 0 {
		t.Fatalf("OctaveOffsets with zero octaves = %v", got)
	}
}

func TestSplitMix64Reference(t *testing.T) {
	// First outputs of Vigna's splitmix64.c seeded with 1234567.
	rng := splitMix64{state: 1234567}
	want := []uint64{
		6457827717110365317,
		3203168211198807973,
		9817491932198370423,
		4593380528125082431,
		16408922859458223821,
	}
	for i, w := range want {
		if got := rng.next(); got != w {
			t.Fatalf("output %d = %d, want %d", i, got, w)
		}
	}
}

func TestDeterminism(t *testing.T) {
	params := defaultParams()
	a, err := Generate(context.Background(), params, noise.NewSimplex(5))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(context.Background(), params, noise.NewSimplex(5))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Raw.Values {
		if a.Raw.Values[i] != b.Raw.Values[i] {
			t.Fatalf("raw cell %d differs: %v vs %v", i, a.Raw.Values[i], b.Raw.Values[i])
		}
		if a.Normalized.Values[i] != b.Normalized.Values[i] {
			t.Fatalf("normalized cell %d differs", i)
		}
	}
}

func TestNormalizationBounds(t *testing.T) {
	for _, kind := range noise.Kinds {
		src, err := noise.New(kind, 11)
		if err != nil {
			t.Fatal(err)
		}
		res, err := Generate(context.Background(), defaultParams(), src)
		if err != nil {
			t.Fatal(err)
		}
		lo, hi := Extent(res.Normalized)
		if math.Abs(lo) > 1e-6 || math.Abs(hi-1) > 1e-6 {
			t.Errorf("%s: normalized extent = [%v, %v], want [0, 1]", kind, lo, hi)
		}
		for i, v := range res.Normalized.Values {
			if v < 0 || v > 1 {
				t.Fatalf("%s: normalized cell %d = %v", kind, i, v)
			}
		}
	}
}

func TestFlatMapFallback(t *testing.T) {
	params := defaultParams()
	params.Octaves = 0
	res, err := Generate(context.Background(), params, noise.NewSimplex(0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Min != 0 || res.Max != 0 {
		t.Fatalf("extent = [%v, %v], want [0, 0]", res.Min, res.Max)
	}
	for i, v := range res.Normalized.Values {
		if v != 0.5 {
			t.Fatalf("normalized cell %d = %v, want 0.5", i, v)
		}
	}
}

func TestSingleOctaveEquivalence(t *testing.T) {
	params := defaultParams()
	params.Octaves = 1
	params.Persistence = 0.123
	params.Lacunarity = 7
	src := noise.NewSimplex(8)
	raw, err := Synthesize(context.Background(), params, src)
	if err != nil {
		t.Fatal(err)
	}
	offset := OctaveOffsets(params.Seed, 1, params.Offset)[0]
	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			cx := float64(x) - float64(params.Width)/2
			cy := float64(y) - float64(params.Height)/2
			want := src.Noise2D(float64(cx/params.Scale)+offset.X, float64(cy/params.Scale)+offset.Y)
			if got := raw.At(x, y); got != want {
				t.Fatalf("raw(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPersistenceZeroCollapse(t *testing.T) {
	params := defaultParams()
	params.Persistence = 0
	src := noise.NewSimplex(21)
	many, err := Synthesize(context.Background(), params, src)
	if err != nil {
		t.Fatal(err)
	}
	params.Octaves = 1
	one, err := Synthesize(context.Background(), params, src)
	if err != nil {
		t.Fatal(err)
	}
	for i := range one.Values {
		if many.Values[i] != one.Values[i] {
			t.Fatalf("cell %d: %v with persistence 0, %v with one octave", i, many.Values[i], one.Values[i])
		}
	}
}

func TestSingleCell(t *testing.T) {
	params := defaultParams()
	params.Width, params.Height = 1, 1
	res, err := Generate(context.Background(), params, noise.NewSimplex(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Normalized.Values) != 1 {
		t.Fatalf("got %d cells, want 1", len(res.Normalized.Values))
	}
	if res.Min != res.Max {
		t.Fatalf("extent = [%v, %v], want min == max", res.Min, res.Max)
	}
	if v := res.Normalized.At(0, 0); v != 0.5 {
		t.Fatalf("normalized = %v, want 0.5", v)
	}
}

func TestEmptyMap(t *testing.T) {
	params := defaultParams()
	params.Width = 0
	res, err := Generate(context.Background(), params, noise.NewSimplex(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Raw.Values) != 0 || len(res.Normalized.Values) != 0 {
		t.Fatalf("empty map has %d cells", len(res.Normalized.Values))
	}
}

func TestInvalidScale(t *testing.T) {
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		params := defaultParams()
		params.Scale = scale
		_, err := Synthesize(context.Background(), params, noise.NewSimplex(1))
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("scale %v: err = %v, want ErrInvalidParameter", scale, err)
		}
		var perr *ParameterError
		if !errors.As(err, &perr) || perr.Name != "scale" {
			t.Fatalf("scale %v: err = %v, want a scale ParameterError", scale, err)
		}
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	params := Parameters{Width: -1, Height: -2, Scale: 0, Octaves: -3, Persistence: math.NaN(), Lacunarity: math.Inf(-1)}
	err := params.Validate()
	names := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var perr *ParameterError
		if errors.As(e, &perr) {
			names[perr.Name] = true
		}
	}
	for _, name := range []string{"width", "height", "scale", "octaves", "persistence", "lacunarity"} {
		if !names[name] {
			t.Errorf("Validate did not report %s: %v", name, err)
		}
	}
	if err := defaultParams().Validate(); err != nil {
		t.Fatalf("default parameters rejected: %v", err)
	}
}

func TestNumericDomainError(t *testing.T) {
	src := noise.Func(func(x, y float64) float64 {
		if y > 99990 {
			return math.NaN()
		}
		return 0
	})
	params := defaultParams()
	params.Seed = 0
	params.Octaves = 1
	// Push every sample past the threshold.
	params.Offset = Vec2{Y: 200000}
	_, err := Synthesize(context.Background(), params, src)
	var derr *NumericDomainError
	if !errors.As(err, &derr) || !errors.Is(err, ErrNumericDomain) {
		t.Fatalf("err = %v, want NumericDomainError", err)
	}
	if !math.IsNaN(derr.Value) {
		t.Fatalf("error value = %v, want NaN", derr.Value)
	}
}

func TestExtentMatchesScan(t *testing.T) {
	res, err := Generate(context.Background(), defaultParams(), noise.NewOpenSimplex(4))
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range res.Raw.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo != res.Min || hi != res.Max {
		t.Fatalf("Extent = [%v, %v], scan = [%v, %v]", res.Min, res.Max, lo, hi)
	}
}

func TestExtentMonotonic(t *testing.T) {
	// Strictly increasing values must still report the first cell as min.
	m := NewMap(5, 2)
	for i := range m.Values {
		m.Values[i] = float64(i)
	}
	lo, hi := Extent(m)
	if lo != 0 || hi != 9 {
		t.Fatalf("Extent = [%v, %v], want [0, 9]", lo, hi)
	}
}

func TestNormalizeEndpoints(t *testing.T) {
	m := Map{Width: 3, Height: 1, Values: []float64{-2, 0.5, 3}}
	out := Normalize(m, -2, 3)
	if out.Values[0] != 0 || out.Values[2] != 1 || out.Values[1] != 0.5 {
		t.Fatalf("Normalize = %v", out.Values)
	}
	if m.Values[0] != -2 {
		t.Fatal("Normalize modified its input")
	}
}

func TestSynthesizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Synthesize(ctx, defaultParams(), noise.NewSimplex(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type golden struct {
	Parameters Parameters `json:"parameters"`
	Noise      struct {
		Kind noise.Kind `json:"kind"`
		Seed int64      `json:"seed"`
	} `json:"noise"`
	Offsets    []Vec2    `json:"offsets"`
	Raw        []float64 `json:"raw"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Normalized []float64 `json:"normalized"`
}

func TestGoldenScenario(t *testing.T) {
	data, err := os.ReadFile("testdata/scenario_4x4.golden.json")
	if err != nil {
		t.Fatal(err)
	}
	var want golden
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatal(err)
	}
	params := Parameters{
		Width: 4, Height: 4, Seed: 42, Scale: 1.0, Octaves: 1,
		Persistence: 0.5, Lacunarity: 2.0,
	}
	if want.Parameters != params {
		t.Fatalf("golden parameters = %+v, want %+v", want.Parameters, params)
	}
	offsets := OctaveOffsets(params.Seed, params.Octaves, params.Offset)
	if len(offsets) != len(want.Offsets) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want.Offsets))
	}
	for i := range offsets {
		if offsets[i] != want.Offsets[i] {
			t.Fatalf("offset %d = %v, want %v", i, offsets[i], want.Offsets[i])
		}
	}
	src, err := noise.New(want.Noise.Kind, want.Noise.Seed)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Generate(context.Background(), params, src)
	if err != nil {
		t.Fatal(err)
	}
	if res.Min != want.Min || res.Max != want.Max {
		t.Fatalf("extent = [%v, %v], want [%v, %v]", res.Min, res.Max, want.Min, want.Max)
	}
	for i := range want.Raw {
		if res.Raw.Values[i] != want.Raw[i] {
			t.Errorf("raw cell %d = %v, want %v", i, res.Raw.Values[i], want.Raw[i])
		}
		if res.Normalized.Values[i] != want.Normalized[i] {
			t.Errorf("normalized cell %d = %v, want %v", i, res.Normalized.Values[i], want.Normalized[i])
		}
	}
}

func TestOversizedMap(t *testing.T) {
	for _, size := range [][2]int{{1 << 62, 4}, {4, 1 << 62}, {1 << 32, 1 << 32}} {
		params := defaultParams()
		params.Width, params.Height = size[0], size[1]
		err := params.Validate()
		var perr *ParameterError
		if !errors.As(err, &perr) || perr.Name != "size" {
			t.Fatalf("%dx%d: Validate = %v, want a size ParameterError", size[0], size[1], err)
		}
		if _, err := Synthesize(context.Background(), params, noise.NewSimplex(1)); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%dx%d: Synthesize = %v, want ErrInvalidParameter", size[0], size[1], err)
		}
	}
	params := defaultParams()
	params.Width, params.Height = maxCells, 1
	if err := params.Validate(); err != nil {
		t.Fatalf("largest allowed size rejected: %v", err)
	}
}

func TestExtentTallMap(t *testing.T) {
	// More rows than workers; the extremes sit in the last rows.
	m := NewMap(2, 301)
	m.Values[len(m.Values)-1] = 7
	m.Values[len(m.Values)-4] = -3
	lo, hi := Extent(m)
	if lo != -3 || hi != 7 {
		t.Fatalf("Extent = [%v, %v], want [-3, 7]", lo, hi)
	}
}
