package render

import (
	"testing"

	"pathtracer/imageio"
	"pathtracer/material"
	"pathtracer/math"
	"pathtracer/scenepkg"
)

func TestRenderEmptySceneIsFlatBackground(t *testing.T) {
	cam := scenepkg.Camera{Right: math.Vec3{X: 1}, Up: math.Vec3{Y: 1}, Forward: math.Vec3{Z: 1}, TanHalfFovX: 1, TanHalfFovY: 1}
	scene, err := scenepkg.Build(cam, nil, material.Table{}, math.Vec3{X: 0.2, Y: 0.4, Z: 0.6}, 2, 1)
	if err != nil {
		t.Fatalf("scenepkg.Build: %v", err)
	}

	img, err := Render(scene, 4, 4, Options{Workers: 2, Seed: 7})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if img.Width != 4 || img.Height != 4 {
		t.Fatalf("unexpected image dimensions %dx%d", img.Width, img.Height)
	}

	bgImg := imageio.New(1, 1)
	bgImg.Set(0, 0, math.Vec3{X: 0.2, Y: 0.4, Z: 0.6})
	bgImg.ToneMap()
	want := bgImg.At(0, 0)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := img.At(x, y)
			if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 || c.Z < 0 || c.Z > 1 {
				t.Fatalf("pixel (%d,%d) out of tone-mapped range: %+v", x, y, c)
			}
			if c != want {
				t.Fatalf("pixel (%d,%d) = %+v, want the tone-mapped background %+v", x, y, c, want)
			}
		}
	}
}

func TestRenderIsReproducibleForAGivenSeed(t *testing.T) {
	cam := scenepkg.Camera{Right: math.Vec3{X: 1}, Up: math.Vec3{Y: 1}, Forward: math.Vec3{Z: 1}, TanHalfFovX: 1, TanHalfFovY: 1}
	scene, err := scenepkg.Build(cam, nil, material.Table{}, math.Vec3{X: 0.2, Y: 0.4, Z: 0.6}, 2, 4)
	if err != nil {
		t.Fatalf("scenepkg.Build: %v", err)
	}

	img1, err := Render(scene, 6, 6, Options{Workers: 3, Seed: 42})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img2, err := Render(scene, 6, 6, Options{Workers: 3, Seed: 42})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for i := range img1.Pixels {
		if img1.Pixels[i] != img2.Pixels[i] {
			t.Fatalf("pixel %d differs between identically-seeded renders: %+v vs %+v", i, img1.Pixels[i], img2.Pixels[i])
		}
	}
}
