package geom

import (
	stdmath "math"

	"pathtracer/math"
)

// SphereUniform draws phi in [0, 2*pi) and z in [-1, 1) uniformly, then
// maps to a unit vector via (x,y) = (sqrt(1-z^2)cos(phi), sqrt(1-z^2)sin(phi)).
// This is a true uniform-sphere sampler: z is uniform over the sphere's
// height and phi sweeps the full circle, so every direction is equally
// likely. (The legacy implementation this was derived from restricted phi
// to [0, pi), covering only half the sphere; that bug is not reproduced
// here — see sampling.Cosine and sampling.Uniform, both of which rely on
// a genuinely uniform input to be unbiased around an arbitrary normal.)
func SphereUniform(rnd Rand) math.Vec3 {
	phi := rnd.Float32() * 2 * float32(stdmath.Pi)
	z := rnd.Float32()*2 - 1
	r := float32(stdmath.Sqrt(float64(1 - z*z)))
	x := r * float32(stdmath.Cos(float64(phi)))
	y := r * float32(stdmath.Sin(float64(phi)))
	return math.Vec3{X: x, Y: y, Z: z}
}
