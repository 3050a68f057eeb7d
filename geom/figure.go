package geom

import "pathtracer/math"

// Figure is the closed set of primitive surface kinds the renderer
// supports. A tagged union is preferred to open subtype polymorphism: the
// set is small and fixed, element size stays known for BVH compaction, and
// dispatch in the hottest loop (intersection) is a switch over which field
// is set rather than indirect calls through an interface table.
type Figure struct {
	Plane     *Plane
	Ellipsoid *Ellipsoid
	Box       *Box
	Triangle  *Triangle
}

func (f Figure) Intersect(r Ray) (Hit, bool) {
	switch {
	case f.Plane != nil:
		return f.Plane.Intersect(r)
	case f.Ellipsoid != nil:
		return f.Ellipsoid.Intersect(r)
	case f.Box != nil:
		return f.Box.Intersect(r)
	default:
		return f.Triangle.Intersect(r)
	}
}

func (f Figure) AABB() AABB {
	switch {
	case f.Plane != nil:
		return f.Plane.AABB()
	case f.Ellipsoid != nil:
		return f.Ellipsoid.AABB()
	case f.Box != nil:
		return f.Box.AABB()
	default:
		return f.Triangle.AABB()
	}
}

// SamplePoint panics if called on a Plane: planes are not samplable, and
// attempting to sample one as a light is a programmer error rather than a
// recoverable condition.
func (f Figure) SamplePoint(rnd Rand) math.Vec3 {
	switch {
	case f.Plane != nil:
		panic("geom: plane is not samplable")
	case f.Ellipsoid != nil:
		return f.Ellipsoid.SamplePoint(rnd)
	case f.Box != nil:
		return f.Box.SamplePoint(rnd)
	default:
		return f.Triangle.SamplePoint(rnd)
	}
}

func (f Figure) AreaPDF(p math.Vec3) float32 {
	switch {
	case f.Plane != nil:
		panic("geom: plane is not samplable")
	case f.Ellipsoid != nil:
		return f.Ellipsoid.AreaPDF(p)
	case f.Box != nil:
		return f.Box.AreaPDF(p)
	default:
		return f.Triangle.AreaPDF(p)
	}
}

// PositionedFigure wraps a Figure with a rigid transform: a translation and
// a unit rotation. Rays are carried into the figure's local space by the
// inverse transform before intersecting; the resulting normal is rotated
// back into world space and oriented against the incoming ray.
type PositionedFigure struct {
	Figure   Figure
	Position math.Vec3
	Rotation math.Quaternion
}

// NewPositionedFigure wraps figure with the identity transform.
func NewPositionedFigure(figure Figure) PositionedFigure {
	return PositionedFigure{
		Figure:   figure,
		Position: math.Vec3{},
		Rotation: math.QuaternionIdentity(),
	}
}

func (p PositionedFigure) Intersect(r Ray) (Hit, bool) {
	inv := p.Rotation.Inverse()
	local := Ray{
		Origin:    inv.RotateVector(r.Origin.Sub(p.Position)),
		Direction: inv.RotateVector(r.Direction),
	}

	hit, ok := p.Figure.Intersect(local)
	if !ok {
		return Hit{}, false
	}

	hit.N = p.Rotation.RotateVector(hit.N).Normalize()
	if hit.N.Dot(r.Direction) > 0 {
		hit.N = hit.N.Negate()
	}
	return hit, true
}

func (p PositionedFigure) AABB() AABB {
	local := p.Figure.AABB()
	box := EmptyAABB()
	corners := cubeCorners(local.Min, local.Max)
	for _, c := range corners {
		box = box.ExtendPoint(p.Rotation.RotateVector(c).Add(p.Position))
	}
	return box
}

func (p PositionedFigure) SamplePoint(rnd Rand) math.Vec3 {
	local := p.Figure.SamplePoint(rnd)
	return p.Rotation.RotateVector(local).Add(p.Position)
}

func (p PositionedFigure) AreaPDF(point math.Vec3) float32 {
	local := p.Rotation.Inverse().RotateVector(point.Sub(p.Position))
	return p.Figure.AreaPDF(local)
}
