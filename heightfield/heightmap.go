package heightfield

// Map is a row-major grid of heights, Values[y*Width+x].
type Map struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

// NewMap allocates a zeroed width×height map.
func NewMap(width, height int) Map {
	return Map{Width: width, Height: height, Values: make([]float64, width*height)}
}

// At returns the height at (x, y).
func (m Map) At(x, y int) float64 { return m.Values[y*m.Width+x] }

// Row returns the heights of row y, sharing storage with m.
func (m Map) Row(y int) []float64 { return m.Values[y*m.Width : (y+1)*m.Width] }

// Empty reports whether m has no cells.
func (m Map) Empty() bool { return m.Width == 0 || m.Height == 0 }
