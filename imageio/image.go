// Package imageio holds the renderer's output image buffer and its PPM
// (P6) serialization, including ACES tonemapping and gamma correction.
package imageio

import "pathtracer/math"

// Image is a row-major linear-color framebuffer, one Vec3 per pixel, row 0
// at the top of the image.
type Image struct {
	Width, Height int
	Pixels        []math.Vec3
}

// New allocates a black image of the given dimensions.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]math.Vec3, width*height),
	}
}

func (img *Image) index(x, y int) int { return y*img.Width + x }

// At returns the pixel at (x, y), y=0 being the top row.
func (img *Image) At(x, y int) math.Vec3 {
	return img.Pixels[img.index(x, y)]
}

// Set writes the pixel at (x, y), y=0 being the top row.
func (img *Image) Set(x, y int, c math.Vec3) {
	img.Pixels[img.index(x, y)] = c
}

// ToneMap applies the ACES filmic approximation and gamma correction
// (γ=2.2) to every pixel in place, converting linear radiance into
// display-ready color.
func (img *Image) ToneMap() {
	for i, c := range img.Pixels {
		img.Pixels[i] = gammaCorrect(acesTonemap(c))
	}
}

const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

func acesTonemap(x math.Vec3) math.Vec3 {
	num := x.MulVec(x.Mul(acesA).Add(math.Vec3{X: acesB, Y: acesB, Z: acesB}))
	den := x.MulVec(x.Mul(acesC).Add(math.Vec3{X: acesD, Y: acesD, Z: acesD})).Add(math.Vec3{X: acesE, Y: acesE, Z: acesE})
	return saturate(num.DivVec(den))
}

func saturate(c math.Vec3) math.Vec3 {
	return c.Max(math.Vec3Zero).Min(math.Vec3One)
}

const gammaExponent = 1.0 / 2.2

func gammaCorrect(c math.Vec3) math.Vec3 {
	return math.Vec3{
		X: powf(c.X, gammaExponent),
		Y: powf(c.Y, gammaExponent),
		Z: powf(c.Z, gammaExponent),
	}
}
