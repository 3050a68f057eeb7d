package geom

import (
	"math/rand"
	"testing"

	"pathtracer/math"
)

func TestPlaneIntersect(t *testing.T) {
	p := Plane{Normal: math.Vec3{Y: 1}}
	r := NewRay(math.Vec3{Y: 5}, math.Vec3{Y: -1})

	hit, ok := p.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.T != 5 {
		t.Errorf("t = %v, want 5", hit.T)
	}
	if hit.Inside {
		t.Error("origin above the plane should not be inside")
	}
}

func TestPlaneIntersectMiss(t *testing.T) {
	p := Plane{Normal: math.Vec3{Y: 1}}
	r := NewRay(math.Vec3{Y: 5}, math.Vec3{Y: 1})

	if _, ok := p.Intersect(r); ok {
		t.Error("ray moving away from the plane should miss")
	}
}

func TestEllipsoidIntersectOnSurface(t *testing.T) {
	e := Ellipsoid{Radii: math.Vec3{X: 1, Y: 2, Z: 3}}
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		origin := math.Vec3{X: 10, Y: 10, Z: 10}
		dir := math.Vec3{
			X: rnd.Float32()*2 - 1,
			Y: rnd.Float32()*2 - 1,
			Z: rnd.Float32()*2 - 1,
		}
		if dir.LengthSqr() < 1e-6 {
			continue
		}
		r := NewRay(origin, dir.Sub(origin))

		hit, ok := e.Intersect(r)
		if !ok {
			continue
		}
		p := r.At(hit.T).DivVec(e.Radii)
		if d := p.LengthSqr() - 1; d > 1e-4 || d < -1e-4 {
			t.Errorf("hit point off surface: |p/r|^2-1 = %v", d)
		}
	}
}

func TestPositionedFigureOrientsNormalAgainstRay(t *testing.T) {
	tri := NewTriangle(
		math.Vec3{X: -1, Z: 5},
		math.Vec3{X: 1, Z: 5},
		math.Vec3{Y: 1, Z: 5},
	)
	pf := NewPositionedFigure(Figure{Triangle: &tri})

	r := NewRay(math.Vec3{}, math.Vec3{Z: 1})
	hit, ok := pf.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.N.Dot(r.Direction) > 0 {
		t.Error("normal should be oriented against the incoming ray")
	}
	if d := hit.N.Length() - 1; d > 1e-4 || d < -1e-4 {
		t.Errorf("normal should be unit length, got %v", hit.N.Length())
	}
}

func TestBoxAreaPDFMatchesSurfaceArea(t *testing.T) {
	b := Box{HalfSizes: math.Vec3{X: 1, Y: 2, Z: 3}}
	want := float32(1.0 / (8 * (1*2 + 2*3 + 1*3)))
	if got := b.AreaPDF(math.Vec3{}); got != want {
		t.Errorf("AreaPDF = %v, want %v", got, want)
	}
}

func TestTriangleSamplePointInsideTriangle(t *testing.T) {
	tri := NewTriangle(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})
	rnd := rand.New(rand.NewSource(2))

	for i := 0; i < 50; i++ {
		p := tri.SamplePoint(rnd)
		if p.X < -1e-4 || p.Y < -1e-4 || p.X+p.Y > 1+1e-4 {
			t.Errorf("sampled point %v outside triangle", p)
		}
	}
}
