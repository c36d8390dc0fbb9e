// Package bitplane reads and writes bit sequences in the least
// significant bits of an image's color channels.
//
// Traversal order is fixed: row-major over pixels, then R, G, B within
// each pixel. The alpha channel never carries bits. Write and read use
// the identical order; this is the contract that makes round-tripping
// work at all.
package bitplane

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

var ErrCapacityExceeded = errors.New("bit sequence exceeds image capacity")

// usable channels per pixel: R, G, B. Alpha is skipped so embedding
// never affects transparency.
const usableChannels = 3

// Buffer is a decoded pixel grid owned by a single embed or extract call.
type Buffer struct {
	nrgba *image.NRGBA
}

// FromImage decodes src into an NRGBA buffer anchored at the origin.
// The source image is not retained.
func FromImage(src image.Image) *Buffer {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return &Buffer{nrgba: dst}
}

// CapacityBits returns the number of payload bits the buffer can carry:
// one per usable channel byte.
func (b *Buffer) CapacityBits() int {
	r := b.nrgba.Rect
	return r.Dx() * r.Dy() * usableChannels
}

// WriteBits stores bits in the least significant bits of the buffer in
// traversal order. The write is all-or-nothing: if bits do not fit, the
// buffer is left untouched and ErrCapacityExceeded is returned.
func (b *Buffer) WriteBits(bits []bool) error {
	if len(bits) > b.CapacityBits() {
		return ErrCapacityExceeded
	}
	pix := b.nrgba.Pix
	for i, bit := range bits {
		at := channelOffset(i)
		pix[at] &^= 1
		if bit {
			pix[at] |= 1
		}
	}
	return nil
}

// ReadBits returns the least significant bits of the first count channel
// bytes in traversal order. count must not exceed CapacityBits; the
// engine does not interpret the bits.
func (b *Buffer) ReadBits(count int) []bool {
	pix := b.nrgba.Pix
	bits := make([]bool, count)
	for i := range bits {
		bits[i] = pix[channelOffset(i)]&1 == 1
	}
	return bits
}

// Image returns the buffer's pixels. The caller must re-encode with a
// lossless format; lossy re-encoding destroys the carried bits.
func (b *Buffer) Image() *image.NRGBA {
	return b.nrgba
}

// channelOffset maps the i-th traversal position to an index into the
// NRGBA pixel slice, skipping every fourth (alpha) byte.
func channelOffset(i int) int {
	return (i/usableChannels)*4 + i%usableChannels
}
