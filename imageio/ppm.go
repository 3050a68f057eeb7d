package imageio

import (
	"bufio"
	"fmt"
	"io"
	stdmath "math"
)

// WritePPM serializes img as binary PPM (P6, max value 255). Callers that
// want tone-mapped output must call ToneMap before WritePPM; WritePPM
// itself only quantizes whatever linear or already-mapped values img
// holds.
func WritePPM(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return fmt.Errorf("imageio: writing PPM header: %w", err)
	}

	row := make([]byte, 0, img.Width*3)
	for y := 0; y < img.Height; y++ {
		row = row[:0]
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			row = append(row, quantize(c.X), quantize(c.Y), quantize(c.Z))
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("imageio: writing PPM row %d: %w", y, err)
		}
	}

	return bw.Flush()
}

func quantize(c float32) byte {
	v := stdmath.Round(float64(c) * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func powf(x, exp float32) float32 {
	return float32(stdmath.Pow(float64(x), float64(exp)))
}
