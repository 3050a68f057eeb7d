package geom

import "pathtracer/math"

// Triangle stores a vertex, the two edges spanning it, the precomputed unit
// face normal, and the reciprocal of its area (for uniform area sampling).
type Triangle struct {
	V       math.Vec3
	Edge1   math.Vec3
	Edge2   math.Vec3
	Normal  math.Vec3
	InvArea float32
}

// NewTriangle derives the normal and inverse area from the three vertices.
// A degenerate (zero-area) triangle gets InvArea = 0; callers must not
// sample it as a light.
func NewTriangle(v0, v1, v2 math.Vec3) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	cross := e1.Cross(e2)
	area := cross.Length() * 0.5

	var invArea float32
	if area > 0 {
		invArea = 1 / area
	}

	return Triangle{
		V:       v0,
		Edge1:   e1,
		Edge2:   e2,
		Normal:  cross.Normalize(),
		InvArea: invArea,
	}
}

// Intersect solves the 3x3 linear system [e1, e2, -d]·(u,v,t) = o-v for the
// barycentric coordinates and ray parameter via Cramer's rule; an
// unsolvable (singular) system or a hit outside the triangle is reported as
// a miss rather than an error.
func (tr Triangle) Intersect(r Ray) (Hit, bool) {
	e1, e2, d := tr.Edge1, tr.Edge2, r.Direction
	rhs := r.Origin.Sub(tr.V)

	// Cramer's rule for the matrix [e1 | e2 | -d].
	negD := d.Negate()
	det := tripleProduct(e1, e2, negD)
	if det == 0 {
		return Hit{}, false
	}
	invDet := 1 / det

	u := tripleProduct(rhs, e2, negD) * invDet
	v := tripleProduct(e1, rhs, negD) * invDet
	t := tripleProduct(e1, e2, rhs) * invDet

	if t < 0 || u < 0 || v < 0 || u+v > 1 {
		return Hit{}, false
	}

	return Hit{
		T:      t,
		N:      tr.Normal,
		Inside: tr.Normal.Dot(r.Origin) < 0,
	}, true
}

// tripleProduct computes det([a | b | c]) = a . (b x c).
func tripleProduct(a, b, c math.Vec3) float32 {
	return a.Dot(b.Cross(c))
}

func (tr Triangle) AABB() AABB {
	box := EmptyAABB()
	box = box.ExtendPoint(tr.V)
	box = box.ExtendPoint(tr.V.Add(tr.Edge1))
	box = box.ExtendPoint(tr.V.Add(tr.Edge2))
	return box
}

// SamplePoint draws (a,b) uniform in [0,1]^2, reflecting across the
// diagonal when a+b>1 so the result stays inside the triangle.
func (tr Triangle) SamplePoint(rnd Rand) math.Vec3 {
	a := rnd.Float32()
	b := rnd.Float32()
	if a+b > 1 {
		a, b = 1-a, 1-b
	}
	return tr.V.Add(tr.Edge1.Mul(a)).Add(tr.Edge2.Mul(b))
}

func (tr Triangle) AreaPDF(p math.Vec3) float32 {
	return tr.InvArea
}
