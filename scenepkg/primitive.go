package scenepkg

import (
	"pathtracer/geom"
	"pathtracer/math"
)

// Primitive is a positioned figure plus an index into the scene's material
// table. It is the element type of both of a scene's BVHs: the SAH-BVH is
// generic over geom.Surface, so the same BVH implementation serves scenes
// loaded from the legacy text format (which can place any Figure kind) and
// scenes loaded from glTF (which only ever produce triangles).
type Primitive struct {
	Figure        geom.PositionedFigure
	MaterialIndex uint32
}

func (p Primitive) Intersect(r geom.Ray) (geom.Hit, bool) { return p.Figure.Intersect(r) }
func (p Primitive) AABB() geom.AABB                       { return p.Figure.AABB() }
func (p Primitive) SamplePoint(rnd geom.Rand) math.Vec3   { return p.Figure.SamplePoint(rnd) }
func (p Primitive) AreaPDF(point math.Vec3) float32       { return p.Figure.AreaPDF(point) }

// IsPlane reports whether the underlying figure is an unbounded plane,
// which cannot be stored in a BVH leaf (see Scene.InfinitePrimitives).
func (p Primitive) IsPlane() bool { return p.Figure.Figure.Plane != nil }
