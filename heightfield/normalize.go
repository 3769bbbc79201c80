package heightfield

// flat is the height assigned to every cell of a map whose heights are all
// equal, where (v - lo) / (hi - lo) would divide by zero.
const flat = 0.5

// Normalize rescales raw into [0, 1] so that lo maps to 0 and hi to 1.
func Normalize(raw Map, lo, hi float64) Map {
	out := NewMap(raw.Width, raw.Height)
	if hi == lo {
		for i := range out.Values {
			out.Values[i] = flat
		}
		return out
	}
	span := hi - lo
	for i, v := range raw.Values {
		out.Values[i] = (v - lo) / span
	}
	return out
}
