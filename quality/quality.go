// Package quality measures how far a watermarked image drifted from its
// original. LSB embedding changes each channel byte by at most one, so
// PSNR stays far above the perceptibility threshold; the numbers exist
// to confirm that, not to tune anything.
package quality

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"
)

var ErrBoundsMismatch = errors.New("images have different dimensions")

// MSE returns the mean squared error over the R, G, B channels of a and b.
func MSE(a, b image.Image) (float64, error) {
	pa, pb := normalize(a), normalize(b)
	if len(pa) != len(pb) {
		return 0, ErrBoundsMismatch
	}
	// every fourth byte is alpha, which embedding never touches
	sq := make([]float64, 0, len(pa)/4*3)
	for i := range pa {
		if i%4 == 3 {
			continue
		}
		d := float64(pa[i]) - float64(pb[i])
		sq = append(sq, d*d)
	}
	return stat.Mean(sq, nil), nil
}

// PSNR returns the peak signal-to-noise ratio in dB between a and b.
// Identical images yield +Inf.
func PSNR(a, b image.Image) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}

func normalize(src image.Image) []uint8 {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst.Pix
}
