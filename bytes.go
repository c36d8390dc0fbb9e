package stegomark

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/yyyoichi/stegomark/fingerprint"
	"github.com/yyyoichi/stegomark/payload"
	"github.com/yyyoichi/stegomark/provenance"
	"github.com/yyyoichi/stegomark/verify"
)

// EmbedBytes decodes data, embeds rec, and re-encodes the result as PNG.
// PNG is the only output format: the watermark lives in least
// significant bits and any lossy re-encoding would erase it.
//
// When a manifest signer is configured it is layered on top of the PNG
// bytes; when a registry is configured the signature is recorded.
// Both collaborators are best effort and their failure leaves the
// watermarked PNG as the result.
func (w *Watermark) EmbedBytes(ctx context.Context, data []byte, rec payload.Record) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	digest := fingerprint.New(src)
	if rec.Fingerprint == [payload.FingerprintLen]byte{} {
		rec.Fingerprint = digest.Short()
	}
	marked, err := w.Embed(ctx, src, rec)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, marked); err != nil {
		return nil, fmt.Errorf("encode watermarked png: %w", err)
	}
	result := out.Bytes()

	if w.manifestSigner != nil {
		signed, err := w.manifestSigner.Sign(ctx, result, provenance.Claim{
			Author: rec.CreatorID,
		})
		if err == nil && len(signed) > 0 {
			result = signed
		}
	}
	if w.registry != nil {
		_ = w.registry.RecordSignature(ctx, provenance.Signature{
			CreatorID:   rec.CreatorID,
			Fingerprint: digest,
			Source:      rec.Source,
		})
	}
	return result, nil
}

// ExtractBytes decodes data and extracts the watermark record.
func (w *Watermark) ExtractBytes(ctx context.Context, data []byte) (payload.Record, bool, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return payload.Record{}, false, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return w.Extract(ctx, src)
}

// Verify decodes data, extracts the watermark, consults the manifest
// collaborator when one is configured, and classifies the result.
// "No signature" is a normal outcome, not an error.
func (w *Watermark) Verify(ctx context.Context, data []byte) (verify.Outcome, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return verify.Outcome{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return w.VerifyImage(ctx, src, w.manifestStatus(ctx, data))
}

// manifestStatus maps the collaborator result onto the closed status
// set. Collaborator errors count as absent; the watermark path must
// never be aborted by the manifest layer.
func (w *Watermark) manifestStatus(ctx context.Context, data []byte) verify.ManifestStatus {
	if w.manifestVerifier == nil {
		return verify.ManifestAbsent
	}
	res, err := w.manifestVerifier.Verify(ctx, data)
	if err != nil || res == nil || !res.Found {
		return verify.ManifestAbsent
	}
	if res.Valid {
		return verify.ManifestValid
	}
	return verify.ManifestInvalid
}
