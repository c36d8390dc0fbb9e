package bitplane

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7),
				G: uint8(y * 11),
				B: uint8((x + y) * 3),
				A: 255,
			})
		}
	}
	return img
}

func patternBits(n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = i%3 == 0 || i%7 == 0
	}
	return bits
}

func TestCapacityBits(t *testing.T) {
	test := []struct {
		w, h int
		want int
	}{
		{1, 1, 3},
		{16, 16, 768},
		{64, 64, 12288},
		{640, 480, 921600},
	}
	for _, tt := range test {
		buf := FromImage(newGradient(tt.w, tt.h))
		assert.Equal(t, tt.want, buf.CapacityBits())
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	buf := FromImage(newGradient(32, 32))
	for _, n := range []int{0, 1, 7, 8, 64, 1000, buf.CapacityBits()} {
		bits := patternBits(n)
		require.NoError(t, buf.WriteBits(bits))
		assert.Equal(t, bits, buf.ReadBits(n))
	}
}

func TestWriteIsAllOrNothing(t *testing.T) {
	buf := FromImage(newGradient(4, 4))
	before := make([]uint8, len(buf.Image().Pix))
	copy(before, buf.Image().Pix)

	err := buf.WriteBits(patternBits(buf.CapacityBits() + 1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, before, buf.Image().Pix, "failed write must not mutate any pixel")
}

func TestAlphaNeverCarriesBits(t *testing.T) {
	img := newGradient(8, 8)
	// give alpha LSBs a known value
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 201 // odd
	}
	buf := FromImage(img)
	require.NoError(t, buf.WriteBits(make([]bool, buf.CapacityBits())))
	for i := 3; i < len(buf.Image().Pix); i += 4 {
		require.Equal(t, uint8(201), buf.Image().Pix[i])
	}
}

func TestTraversalSkipsAlphaByte(t *testing.T) {
	// writing a single set bit per channel position must land on
	// consecutive non-alpha bytes
	assert.Equal(t, 0, channelOffset(0))
	assert.Equal(t, 1, channelOffset(1))
	assert.Equal(t, 2, channelOffset(2))
	assert.Equal(t, 4, channelOffset(3))
	assert.Equal(t, 5, channelOffset(4))
	assert.Equal(t, 6, channelOffset(5))
	assert.Equal(t, 8, channelOffset(6))
}

func TestFromImageNormalizesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 42, 52))
	buf := FromImage(src)
	assert.Equal(t, image.Rect(0, 0, 32, 32), buf.Image().Bounds())
	assert.Equal(t, 32*32*3, buf.CapacityBits())
}
