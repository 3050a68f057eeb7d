package bvh

import (
	"testing"

	"pathtracer/geom"
	"pathtracer/math"
)

func triAt(x float32) geom.Triangle {
	return geom.NewTriangle(
		math.Vec3{X: x, Z: 5},
		math.Vec3{X: x + 1, Z: 5},
		math.Vec3{X: x + 0.5, Y: 1, Z: 5},
	)
}

func buildTestBVH(t *testing.T, n int) *BVH[geom.Triangle] {
	t.Helper()
	items := make([]geom.Triangle, n)
	for i := 0; i < n; i++ {
		items[i] = triAt(float32(i) * 3)
	}
	b, err := Build(items)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

func TestPartitionCover(t *testing.T) {
	b := buildTestBVH(t, 37)
	if err := b.CheckPartitionCover(); err != nil {
		t.Error(err)
	}
}

func TestContainment(t *testing.T) {
	b := buildTestBVH(t, 37)
	if err := b.CheckContainment(); err != nil {
		t.Error(err)
	}
}

func TestSmallBVHIsSingleLeaf(t *testing.T) {
	b := buildTestBVH(t, 3)
	if !b.nodes[b.root].isLeaf() {
		t.Error("a BVH with <= leafSize items should be a single leaf")
	}
}

func TestIntersectFindsNearest(t *testing.T) {
	b := buildTestBVH(t, 20)
	r := geom.NewRay(math.Vec3{X: 3.5, Y: 0.3, Z: 0}, math.Vec3{Z: 1})

	hit, ok := b.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.T <= 0 {
		t.Errorf("t should be positive, got %v", hit.T)
	}

	// Brute-force nearest hit should agree.
	bestT := float32(1e30)
	bestIdx := -1
	for i := 0; i < b.Len(); i++ {
		if h, ok := b.Item(i).Intersect(r); ok && h.T < bestT {
			bestT, bestIdx = h.T, i
		}
	}
	if bestIdx != hit.Index {
		t.Errorf("BVH found primitive %d, brute force found %d", hit.Index, bestIdx)
	}
}

func TestEnumerateAllHitsFindsEveryCrossing(t *testing.T) {
	items := []geom.Ellipsoid{
		{Radii: math.Vec3{X: 1, Y: 1, Z: 1}},
	}
	b, err := Build(items)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := geom.NewRay(math.Vec3{X: -5}, math.Vec3{X: 1})

	var crossings []float32
	b.EnumerateAllHits(r, func(item geom.Ellipsoid, ray geom.Ray, hit geom.Hit) {
		crossings = append(crossings, hit.T)
	})

	if len(crossings) != 2 {
		t.Fatalf("expected 2 surface crossings through a sphere, got %d: %v", len(crossings), crossings)
	}
}

func TestBuildRejectsNonFiniteAABB(t *testing.T) {
	items := []geom.Plane{{Normal: math.Vec3{Y: 1}}, {Normal: math.Vec3{Y: 1}}, {Normal: math.Vec3{Y: 1}}, {Normal: math.Vec3{Y: 1}}, {Normal: math.Vec3{Y: 1}}}
	if _, err := Build(items); err == nil {
		t.Error("expected Build to reject planes (infinite AABB center)")
	}
}
