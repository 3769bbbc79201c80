package noise

import "math"

/*
Skewing factors for 2D simplex grid:

	F2 = 0.5*(sqrt(3.0)-1.0)
	G2 = (3.0-Math.sqrt(3.0))/6.0
*/
const f2 = 0.366025403
const g2 = 0.211324865

var grad2lut = [8][2]float64{
	{-1.0, -1.0}, {1.0, 0.0}, {-1.0, 0.0}, {1.0, 1.0},
	{-1.0, 1.0}, {0.0, -1.0}, {0.0, 1.0}, {1.0, -1.0},
}

// Simplex is 2D simplex noise over a seeded permutation table. Values
// fall roughly in [-1, 1]. The zero value is not usable, see [NewSimplex].
type Simplex struct {
	perm [512]byte
}

// NewSimplex shuffles the permutation table with a 64-bit LCG seeded from
// seed, so equal seeds always produce the same table on every platform.
func NewSimplex(seed int64) *Simplex {
	var base [256]byte
	for i := range base {
		base[i] = byte(i)
	}
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int(uint64(s>>16) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}
	n := new(Simplex)
	for i := 0; i < 256; i++ {
		n.perm[i] = base[i]
		n.perm[i+256] = base[i]
	}
	return n
}

// corner is one vertex of the simplex containing a sample point: its
// distance from the point, its gradient and the falloff 0.5 - x² - y²,
// clamped to zero outside the vertex's radius.
type corner struct {
	x, y   float64
	gx, gy float64
	t      float64
}

// value is the corner's contribution t⁴ (g · d).
func (c corner) value() float64 {
	t2 := c.t * c.t
	return t2 * t2 * (float64(c.gx*c.x) + float64(c.gy*c.y))
}

// corners locates the simplex cell around (x, y).
func (n *Simplex) corners(x, y float64) [3]corner {
	// The explicit float64 conversions keep the compiler from fusing
	// multiply-adds, so values are bit-identical on every architecture.

	// Skew the input space to determine which simplex cell we're in
	s := float64((x + y) * f2)
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))

	t := float64(float64(i+j) * g2)
	x0 := x - (float64(i) - t) // The x,y distances from the unskewed cell origin
	y0 := y - (float64(j) - t)

	// Offsets for the second (middle) corner of the simplex in (i,j) coords.
	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0 // lower triangle, XY order: (0,0)->(1,0)->(1,1)
	} else {
		i1, j1 = 0, 1 // upper triangle, YX order: (0,0)->(0,1)->(1,1)
	}

	ii := i & 0xff
	jj := j & 0xff

	c := [3]corner{
		{x: x0, y: y0},
		{x: x0 - float64(i1) + g2, y: y0 - float64(j1) + g2},
		{x: x0 - 1.0 + 2.0*g2, y: y0 - 1.0 + 2.0*g2},
	}
	hashes := [3]int{
		int(n.perm[ii+int(n.perm[jj])]),
		int(n.perm[ii+i1+int(n.perm[jj+j1])]),
		int(n.perm[ii+1+int(n.perm[jj+1])]),
	}
	for k := range c {
		c[k].t = 0.5 - float64(c[k].x*c[k].x) - float64(c[k].y*c[k].y)
		if c[k].t < 0 {
			c[k].t = 0
		} else {
			c[k].gx, c[k].gy = grad2(hashes[k])
		}
	}
	return c
}

// Noise2D implements [Source].
func (n *Simplex) Noise2D(x, y float64) float64 {
	c := n.corners(x, y)
	return 40 * (c[0].value() + c[1].value() + c[2].value())
}

// Gradient2D returns the noise value at (x, y) together with its analytic
// partial derivatives.
func (n *Simplex) Gradient2D(x, y float64) (noise, dx, dy float64) {
	c := n.corners(x, y)

	/*  A straight, unoptimised calculation would be like:
	 *    dx = -8 * t2 * t * x * (gx*x + gy*y) + t4*gx
	 *    dy = -8 * t2 * t * y * (gx*x + gy*y) + t4*gy
	 *  summed over the three corners.
	 */
	var gx, gy float64
	for _, k := range c {
		t2 := k.t * k.t
		temp := t2 * k.t * (k.gx*k.x + k.gy*k.y)
		dx += temp * k.x
		dy += temp * k.y
		gx += t2 * t2 * k.gx
		gy += t2 * t2 * k.gy
	}
	dx = (dx*-8.0 + gx) * 40.0
	dy = (dy*-8.0 + gy) * 40.0

	return 40 * (c[0].value() + c[1].value() + c[2].value()), dx, dy
}

func grad2(hash int) (gx, gy float64) {
	h := hash & 7
	return grad2lut[h][0], grad2lut[h][1]
}
