package heightfield

// offsetRange bounds each random offset component to [0, offsetRange).
const offsetRange = 100000

// OctaveOffsets derives one sampling offset per octave from seed. Draws are
// taken as octave 0 X, octave 0 Y, octave 1 X and so on; offset is then
// added to every pair.
func OctaveOffsets(seed int64, octaves int, offset Vec2) []Vec2 {
	if octaves <= 0 {
		return nil
	}
	rng := splitMix64{state: uint64(seed)}
	offsets := make([]Vec2, octaves)
	for i := range offsets {
		offsets[i].X = float64(rng.intn(offsetRange)) + offset.X
		offsets[i].Y = float64(rng.intn(offsetRange)) + offset.Y
	}
	return offsets
}
