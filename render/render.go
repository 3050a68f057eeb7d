// Package render drives the parallel per-pixel rendering loop: it fans
// rows of the image out across a worker pool, with each worker owning a
// private random source so pixel sampling never contends on shared state.
package render

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pathtracer/imageio"
	"pathtracer/integrator"
	"pathtracer/math"
	"pathtracer/scenepkg"
)

// Workers is the number of goroutines the render pool uses; 0 selects
// runtime.NumCPU().
type Options struct {
	Workers int
	Seed    int64
}

// Render produces a tone-mapped image of scene at width x height using
// scene.Samples samples per pixel. Rows are partitioned across a worker
// pool; all samples of a given pixel are drawn sequentially on the same
// worker, since the running-mean accumulation is not associative under
// floating point and must stay reproducible per pixel.
func Render(scene *scenepkg.Scene, width, height int, opts Options) (*imageio.Image, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	img := imageio.New(width, height)

	g := new(errgroup.Group)
	rowsPerWorker := (height + workers - 1) / workers

	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > height {
			endRow = height
		}
		if startRow >= endRow {
			continue
		}

		seed := opts.Seed + int64(w)
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(seed))
			for y := startRow; y < endRow; y++ {
				renderRow(scene, img, y, rnd)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	img.ToneMap()
	return img, nil
}

func renderRow(scene *scenepkg.Scene, img *imageio.Image, y int, rnd *rand.Rand) {
	for x := 0; x < img.Width; x++ {
		img.Set(x, y, renderPixel(scene, img.Width, img.Height, x, y, rnd))
	}
}

func renderPixel(scene *scenepkg.Scene, width, height, x, y int, rnd *rand.Rand) math.Vec3 {
	var mean math.Vec3
	for k := 0; k < scene.Samples; k++ {
		u := (2*(float32(x)+rnd.Float32())/float32(width) - 1)
		v := 1 - 2*(float32(y)+rnd.Float32())/float32(height)

		ray := scene.Camera.RayTo(u, v)
		sample := integrator.Trace(scene, ray, 0, rnd)
		if !sample.IsFinite() {
			sample = math.Vec3Zero
		}

		mean = mean.Mul(float32(k)).Add(sample).Mul(1 / float32(k+1))
	}
	return mean
}
