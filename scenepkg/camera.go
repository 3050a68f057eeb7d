// Package scenepkg holds the renderer's loaded-scene container: the
// camera, the two BVHs (all primitives, emissive-only primitives), and the
// material table. Loaders (sceneformat, gltfio) build a Scene; the
// integrator and render driver only ever read one.
package scenepkg

import (
	"pathtracer/geom"
	"pathtracer/math"
)

// Camera is a pinhole camera: a world-space position, an orthonormal
// (right, up, forward) basis, and the tangents of the half field-of-view
// angles on each axis.
type Camera struct {
	Position                 math.Vec3
	Right, Up, Forward       math.Vec3
	TanHalfFovX, TanHalfFovY float32
}

// RayTo returns the camera ray through normalized image-plane coordinates
// u, v in [-1, 1].
func (c Camera) RayTo(u, v float32) geom.Ray {
	local := math.Vec3{X: u * c.TanHalfFovX, Y: v * c.TanHalfFovY, Z: 1}
	dir := c.Right.Mul(local.X).Add(c.Up.Mul(local.Y)).Add(c.Forward.Mul(local.Z))
	return geom.NewRay(c.Position, dir)
}
