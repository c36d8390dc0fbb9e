// Package fingerprint computes stable digests of an image's visual
// content. The digest covers raw pixel channel bytes in a fixed order,
// so it is independent of the file container and encoding parameters.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"image"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/draw"
)

const (
	// Size is the digest length in bytes.
	Size = 32
	// ShortSize is the truncated fingerprint length carried in a
	// watermark record.
	ShortSize = 4
)

// Engine names a supported hash function.
type Engine string

const (
	SHA256     Engine = "sha256"
	Blake2b256 Engine = "blake2b-256"
)

func (e Engine) newHash() (hash.Hash, error) {
	switch e {
	case SHA256:
		return sha256.New(), nil
	case Blake2b256:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("unsupported fingerprint engine %q", string(e))
	}
}

func (e Engine) multihashCode() uint64 {
	switch e {
	case Blake2b256:
		// blake2b digests occupy a code range; 256 bits is min+31.
		return multihash.BLAKE2B_MIN + 31
	default:
		return multihash.SHA2_256
	}
}

// Digest is a content fingerprint together with the engine that
// produced it.
type Digest struct {
	engine Engine
	sum    [Size]byte
}

// New computes the digest of src's pixel data with the default sha256
// engine. Every pixel contributes its R, G, B, A bytes in row-major
// order, before any alpha premultiplication.
func New(src image.Image) Digest {
	d, _ := NewWithEngine(src, SHA256)
	return d
}

// NewWithEngine computes the digest of src's pixel data with the named
// engine.
func NewWithEngine(src image.Image, engine Engine) (Digest, error) {
	h, err := engine.newHash()
	if err != nil {
		return Digest{}, err
	}
	b := src.Bounds()
	buf := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(buf, image.Point{}, src, b, draw.Src, nil)
	_, _ = h.Write(buf.Pix)

	var d Digest
	d.engine = engine
	copy(d.sum[:], h.Sum(nil))
	return d, nil
}

// Sum returns the full digest bytes.
func (d Digest) Sum() [Size]byte { return d.sum }

// Short returns the first ShortSize bytes, the form embedded in a
// watermark record.
func (d Digest) Short() [ShortSize]byte {
	return [ShortSize]byte(d.sum[:ShortSize])
}

// Hex returns the full digest as lowercase hex.
func (d Digest) Hex() string { return hex.EncodeToString(d.sum[:]) }

// ShortHex returns the truncated fingerprint as 8 hex characters.
func (d Digest) ShortHex() string { return hex.EncodeToString(d.sum[:ShortSize]) }

// CID returns the digest as a CIDv1 over the raw codec, for registries
// that store content-addressed fingerprints.
func (d Digest) CID() (cid.Cid, error) {
	engine := d.engine
	if engine == "" {
		engine = SHA256
	}
	mh, err := multihash.Encode(d.sum[:], engine.multihashCode())
	if err != nil {
		return cid.Undef, fmt.Errorf("encode multihash: %w", err)
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
