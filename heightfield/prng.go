package heightfield

// splitMix64 is Steele, Lea and Flood's SplitMix64 generator, using the
// constants of Vigna's reference implementation. It is pinned here rather
// than taken from math/rand so that offset streams never change between Go
// releases or platforms.
type splitMix64 struct {
	state uint64
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// intn returns a value in [0, n). The modulo bias is below 2^-46 for the
// ranges used here.
func (s *splitMix64) intn(n uint64) uint64 {
	return s.next() % n
}
