package sampling

import (
	"math/rand"
	"testing"

	"pathtracer/bvh"
	"pathtracer/geom"
	"pathtracer/math"
)

func TestCosineSampleInUpperHemisphere(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	n := math.Vec3{Y: 1}

	for i := 0; i < 200; i++ {
		d := Cosine{}.Sample(n, rnd)
		if d.Dot(n) < -1e-6 {
			t.Fatalf("cosine sample %v has negative cosine against normal %v", d, n)
		}
	}
}

func TestCosinePDFMatchesDefinition(t *testing.T) {
	n := math.Vec3{Y: 1}
	d := math.Vec3{Y: 1}
	want := float32(1) / 3.14159265
	if got := (Cosine{}).PDF(n, d); got < want-0.01 || got > want+0.01 {
		t.Errorf("PDF(n, n) = %v, want ~%v", got, want)
	}

	behind := math.Vec3{Y: -1}
	if got := (Cosine{}).PDF(n, behind); got != 0 {
		t.Errorf("PDF below the hemisphere should be 0, got %v", got)
	}
}

func TestToLightDegradesToCosineWithNoLights(t *testing.T) {
	empty, err := bvh.Build([]geom.Ellipsoid{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tl := ToLight[geom.Ellipsoid]{Lights: empty}

	n := math.Vec3{Y: 1}
	if got := tl.PDF(math.Vec3{}, n, n); got == 0 {
		t.Errorf("PDF with no lights should fall back to a nonzero cosine PDF, got %v", got)
	}
}

func TestToLightPDFPositiveTowardLight(t *testing.T) {
	light, err := bvh.Build([]geom.Ellipsoid{{Radii: math.Vec3{X: 1, Y: 1, Z: 1}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tl := ToLight[geom.Ellipsoid]{Lights: light}

	p := math.Vec3{X: -5}
	d := math.Vec3{X: 1}
	n := math.Vec3{X: 1}

	if got := tl.PDF(p, n, d); got <= 0 {
		t.Errorf("PDF toward a light the ray actually crosses should be positive, got %v", got)
	}
}

func TestMISPDFIsConvexCombination(t *testing.T) {
	light, err := bvh.Build([]geom.Ellipsoid{{Radii: math.Vec3{X: 1, Y: 1, Z: 1}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mis := MIS[geom.Ellipsoid]{ToLight: ToLight[geom.Ellipsoid]{Lights: light}}

	p := math.Vec3{X: -5}
	n := math.Vec3{X: 1}

	rnd := rand.New(rand.NewSource(2))
	dir := mis.Sample(p, n, rnd)

	cosinePDF := Cosine{}.PDF(n, dir.D)
	lightPDF := mis.ToLight.PDF(p, n, dir.D)
	want := cosinePDF*cosineProb + lightPDF*(1-cosineProb)

	if got := dir.PDF; got != want {
		t.Errorf("MIS PDF recombination mismatch: got %v want %v", got, want)
	}
}
