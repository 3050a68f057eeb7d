package scenepkg

import (
	"testing"

	"pathtracer/geom"
	"pathtracer/material"
	"pathtracer/math"
)

func unitCamera() Camera {
	return Camera{
		Right:       math.Vec3{X: 1},
		Up:          math.Vec3{Y: 1},
		Forward:     math.Vec3{Z: 1},
		TanHalfFovX: 1,
		TanHalfFovY: 1,
	}
}

func ellipsoidPrimitive(pos math.Vec3, matIdx uint32) Primitive {
	return Primitive{
		Figure: geom.PositionedFigure{
			Figure:   geom.Figure{Ellipsoid: &geom.Ellipsoid{Radii: math.Vec3{X: 1, Y: 1, Z: 1}}},
			Position: pos,
			Rotation: math.QuaternionIdentity(),
		},
		MaterialIndex: matIdx,
	}
}

func planePrimitive(normal math.Vec3, matIdx uint32) Primitive {
	return Primitive{
		Figure:        geom.NewPositionedFigure(geom.Figure{Plane: &geom.Plane{Normal: normal}}),
		MaterialIndex: matIdx,
	}
}

func TestBuildPartitionsPlanesIntoInfiniteList(t *testing.T) {
	prims := []Primitive{
		ellipsoidPrimitive(math.Vec3{X: 5}, 0),
		planePrimitive(math.Vec3{Y: 1}, 0),
	}
	mats := material.Table{{Kind: material.Diffuse}}

	scene, err := Build(unitCamera(), prims, mats, math.Vec3Zero, 4, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if scene.BVH.Len() != 1 {
		t.Errorf("BVH should own only the ellipsoid, got %d items", scene.BVH.Len())
	}
	if len(scene.InfinitePrimitives) != 1 {
		t.Errorf("expected 1 infinite primitive (the plane), got %d", len(scene.InfinitePrimitives))
	}
}

func TestBuildCollectsEmissivePrimitivesIntoLightBVH(t *testing.T) {
	prims := []Primitive{
		ellipsoidPrimitive(math.Vec3{X: 5}, 0),
		ellipsoidPrimitive(math.Vec3{X: -5}, 1),
	}
	mats := material.Table{
		{Kind: material.Diffuse},
		{Kind: material.Diffuse, Emission: math.Vec3{X: 1, Y: 1, Z: 1}},
	}

	scene, err := Build(unitCamera(), prims, mats, math.Vec3Zero, 4, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if scene.LightBVH.Len() != 1 {
		t.Errorf("light BVH should own only the emissive ellipsoid, got %d", scene.LightBVH.Len())
	}
}

func TestSceneIntersectFindsPlaneOverBoundedPrimitive(t *testing.T) {
	prims := []Primitive{
		planePrimitive(math.Vec3{Y: 1}, 0),      // plane through origin, normal +Y
		ellipsoidPrimitive(math.Vec3{Y: -5}, 0), // unit sphere below the plane, hit at t=9
	}
	mats := material.Table{{Kind: material.Diffuse}}
	scene, err := Build(unitCamera(), prims, mats, math.Vec3Zero, 4, 16)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := geom.NewRay(math.Vec3{Y: 5}, math.Vec3{Y: -1})
	hit, ok := scene.Intersect(ray)
	if !ok {
		t.Fatal("expected a hit against the infinite plane")
	}
	if hit.T <= 4 || hit.T >= 6 {
		t.Errorf("expected t near 5, got %v", hit.T)
	}

	resolved := scene.Primitive(hit.Index)
	if !resolved.IsPlane() {
		t.Error("resolved primitive should be the plane")
	}
}

func TestCameraRayToPointsAlongForwardAtCenter(t *testing.T) {
	cam := unitCamera()
	ray := cam.RayTo(0, 0)
	if ray.Direction.Dot(math.Vec3{Z: 1}) < 0.999 {
		t.Errorf("ray through image center should point along forward, got %v", ray.Direction)
	}
}
