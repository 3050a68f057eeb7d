package scenepkg

import (
	"fmt"

	"pathtracer/bvh"
	"pathtracer/geom"
	"pathtracer/material"
	"pathtracer/math"
)

// DefaultBackground is used when a scene source (glTF) does not specify a
// background color.
var DefaultBackground = math.Vec3Zero

// Scene is the immutable, fully-loaded input to rendering: a camera, the
// BVH over every finite-extent primitive, a second BVH over only the
// emissive subset (for light sampling), any unbounded planes kept outside
// both BVHs, and the material table primitives index into.
//
// Planes have an infinite AABB and so cannot supply a finite sort key
// during SAH construction (bvh.Build rejects them); a scene built from the
// legacy text format keeps its planes in InfinitePrimitives instead and
// tests them directly against every ray alongside the BVH query.
type Scene struct {
	Camera             Camera
	BVH                *bvh.BVH[Primitive]
	InfinitePrimitives []Primitive
	LightBVH           *bvh.BVH[Primitive]
	Materials          material.Table
	BackgroundColor    math.Vec3
	RayDepth           int
	Samples            int
}

// Build partitions primitives into the bounded/unbounded sets bvh.Build
// requires, builds the primary and light BVHs, and assembles a Scene.
func Build(
	camera Camera,
	primitives []Primitive,
	materials material.Table,
	background math.Vec3,
	rayDepth, samples int,
) (*Scene, error) {
	var bounded, infinite, emissive []Primitive
	for _, p := range primitives {
		if p.IsPlane() {
			infinite = append(infinite, p)
			continue
		}
		bounded = append(bounded, p)
		if int(p.MaterialIndex) < len(materials) && materials[p.MaterialIndex].IsEmissive() {
			emissive = append(emissive, p)
		}
	}

	tree, err := bvh.Build(bounded)
	if err != nil {
		return nil, fmt.Errorf("scenepkg: building primary BVH: %w", err)
	}
	lights, err := bvh.Build(emissive)
	if err != nil {
		return nil, fmt.Errorf("scenepkg: building light BVH: %w", err)
	}

	return &Scene{
		Camera:             camera,
		BVH:                tree,
		InfinitePrimitives: infinite,
		LightBVH:           lights,
		Materials:          materials,
		BackgroundColor:    background,
		RayDepth:           rayDepth,
		Samples:            samples,
	}, nil
}

// Intersect returns the nearest hit along ray across both the bounded BVH
// and the unbounded planes kept outside it.
func (s *Scene) Intersect(ray geom.Ray) (bvh.Hit, bool) {
	best, found := s.BVH.Intersect(ray)

	for i, p := range s.InfinitePrimitives {
		if hit, ok := p.Intersect(ray); ok && (!found || hit.T < best.T) {
			best, found = bvh.Hit{Index: -1 - i, Hit: hit}, true
		}
	}
	return best, found
}

// Primitive resolves a hit index (as returned by Intersect) back to the
// primitive it refers to, whether it came from the bounded BVH or the
// infinite-primitive list.
func (s *Scene) Primitive(index int) Primitive {
	if index >= 0 {
		return s.BVH.Item(index)
	}
	return s.InfinitePrimitives[-1-index]
}
