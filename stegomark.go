// Package stegomark embeds an extractable identity record into the
// least significant bits of an image and verifies it later without
// contacting the creator. The watermark survives lossless re-encoding
// only; a lossy pass destroys it, which is treated as tamper evidence
// rather than something to resist.
package stegomark

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/stegomark/fingerprint"
	"github.com/yyyoichi/stegomark/internal/bitplane"
	"github.com/yyyoichi/stegomark/internal/ecc"
	"github.com/yyyoichi/stegomark/payload"
	"github.com/yyyoichi/stegomark/provenance"
	"github.com/yyyoichi/stegomark/verify"
	"github.com/yyyoichi/stegomark/video"
)

var (
	// ErrCapacityExceeded reports an image too small for the payload.
	ErrCapacityExceeded = errors.New("image is too small for the payload")
	// ErrMalformedInput reports input that could not be decoded as media.
	ErrMalformedInput = errors.New("input is not decodable media")
)

// Embed embeds rec into src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Embed method.
func Embed(ctx context.Context, src image.Image, rec payload.Record, opts ...Option) (image.Image, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Embed(ctx, src, rec)
}

// Extract extracts a record from src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Extract method.
func Extract(ctx context.Context, src image.Image, opts ...Option) (payload.Record, bool, error) {
	w, err := New(opts...)
	if err != nil {
		return payload.Record{}, false, err
	}
	return w.Extract(ctx, src)
}

// Watermark is the embedding and verification engine. The zero options
// configuration writes payload bits as-is; WithGolay adds forward error
// correction. Instances are stateless and safe for concurrent use.
type Watermark struct {
	golay            bool
	registry         provenance.Registry
	manifestSigner   provenance.ManifestSigner
	manifestVerifier provenance.ManifestVerifier
	video            *video.Adapter
}

// New initializes a watermark engine.
func New(opts ...Option) (*Watermark, error) {
	w := new(Watermark)
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.video == nil {
		w.video = video.NewAdapter(video.DefaultConfig())
	}
	return w, nil
}

// Embed writes rec into the least significant bits of src and returns
// the watermarked pixels. When rec carries a zero fingerprint, the
// pre-embedding content fingerprint is computed and filled in. The
// returned image must be re-encoded losslessly.
//
// Fails with ErrCapacityExceeded before touching any pixel if src
// cannot carry the payload.
func (w *Watermark) Embed(ctx context.Context, src image.Image, rec payload.Record) (image.Image, error) {
	if rec.Fingerprint == [payload.FingerprintLen]byte{} {
		rec.Fingerprint = fingerprint.New(src).Short()
	}
	bits, err := rec.Encode()
	if err != nil {
		return nil, err
	}
	if w.golay {
		bits = ecc.Encode(bits)
	}
	buf := bitplane.FromImage(src)
	if len(bits) > buf.CapacityBits() {
		return nil, fmt.Errorf("%w: payload %d bits, capacity %d bits",
			ErrCapacityExceeded, len(bits), buf.CapacityBits())
	}
	if err := buf.WriteBits(bits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	return buf.Image(), nil
}

// Extract reads the watermark record out of src. The boolean reports
// whether a well-formed record was found; an unmarked image is a normal
// result, not an error.
func (w *Watermark) Extract(ctx context.Context, src image.Image) (payload.Record, bool, error) {
	buf := bitplane.FromImage(src)
	if w.golay {
		return extractGolay(buf)
	}
	return extractPlain(buf)
}

func extractPlain(buf *bitplane.Buffer) (payload.Record, bool, error) {
	capacity := buf.CapacityBits()
	if capacity < payload.HeaderBits {
		return payload.Record{}, false, nil
	}
	rec, ok := payload.Decode(buf.ReadBits(min(capacity, payload.MaxBits)))
	return rec, ok, nil
}

func extractGolay(buf *bitplane.Buffer) (payload.Record, bool, error) {
	capacity := buf.CapacityBits()
	codedHeader := ecc.EncodedBits(payload.HeaderBits)
	if capacity < codedHeader {
		return payload.Record{}, false, nil
	}
	// Golay blocks are sequential, so the coded prefix decodes to the
	// header alone and reveals the creator length.
	header := ecc.Decode(buf.ReadBits(codedHeader), payload.HeaderBits)
	creatorLen, ok := payload.DecodeHeader(header)
	if !ok {
		return payload.Record{}, false, nil
	}
	coded := ecc.EncodedBits(payload.RecordBits(creatorLen))
	if capacity < coded {
		return payload.Record{}, false, nil
	}
	bits := ecc.Decode(buf.ReadBits(coded), payload.RecordBits(creatorLen))
	rec, ok := payload.Decode(bits)
	return rec, ok, nil
}

// VerifyImage extracts from src and classifies the result. The manifest
// status must be supplied by the caller; use Verify when holding the
// encoded bytes so the manifest collaborator can be consulted directly.
func (w *Watermark) VerifyImage(ctx context.Context, src image.Image, manifest verify.ManifestStatus) (verify.Outcome, error) {
	rec, found, err := w.Extract(ctx, src)
	if err != nil {
		return verify.Outcome{}, err
	}
	var rp *payload.Record
	if found {
		rp = &rec
	}
	return verify.Decide(rp, manifest), nil
}
