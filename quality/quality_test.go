package quality

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestIdenticalImages(t *testing.T) {
	a := flat(8, 8, color.NRGBA{R: 100, G: 150, B: 200, A: 255})
	mse, err := MSE(a, a)
	require.NoError(t, err)
	assert.Zero(t, mse)

	psnr, err := PSNR(a, a)
	require.NoError(t, err)
	assert.True(t, math.IsInf(psnr, 1))
}

func TestKnownDifference(t *testing.T) {
	a := flat(8, 8, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	b := flat(8, 8, color.NRGBA{R: 101, G: 100, B: 100, A: 255})

	// one of three channels differs by exactly one everywhere
	mse, err := MSE(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, mse, 1e-9)

	psnr, err := PSNR(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 10*math.Log10(255*255*3), psnr, 1e-9)
}

func TestAlphaIgnored(t *testing.T) {
	a := flat(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	b := flat(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 254})
	mse, err := MSE(a, b)
	require.NoError(t, err)
	assert.Zero(t, mse)
}

func TestBoundsMismatch(t *testing.T) {
	a := flat(8, 8, color.NRGBA{A: 255})
	b := flat(9, 8, color.NRGBA{A: 255})
	_, err := MSE(a, b)
	assert.ErrorIs(t, err, ErrBoundsMismatch)
}
