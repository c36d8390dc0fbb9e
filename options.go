package stegomark

import (
	"github.com/yyyoichi/stegomark/provenance"
	"github.com/yyyoichi/stegomark/video"
)

type Option func(*Watermark) error

// WithGolay applies Golay(24,12) forward error correction to the
// payload bits before embedding. Extraction must use the same option.
// The coded payload is twice as long, so capacity requirements double.
func WithGolay() Option {
	return func(w *Watermark) error {
		w.golay = true
		return nil
	}
}

// WithRegistry records each successful embed in the given creator
// registry. Registry failures never abort the embed.
func WithRegistry(r provenance.Registry) Option {
	return func(w *Watermark) error {
		w.registry = r
		return nil
	}
}

// WithManifestSigner layers an external provenance manifest onto the
// encoded output of EmbedBytes. Best effort: on signer failure the
// watermarked-only buffer is returned instead.
func WithManifestSigner(s provenance.ManifestSigner) Option {
	return func(w *Watermark) error {
		w.manifestSigner = s
		return nil
	}
}

// WithManifestVerifier consults the external manifest collaborator
// during Verify. Its status is attached to the outcome but never
// overrides the watermark-derived classification.
func WithManifestVerifier(v provenance.ManifestVerifier) Option {
	return func(w *Watermark) error {
		w.manifestVerifier = v
		return nil
	}
}

// WithVideoAdapter replaces the default video adapter, typically to
// point at configured ffmpeg/ffprobe binaries or tighter limits.
func WithVideoAdapter(a *video.Adapter) Option {
	return func(w *Watermark) error {
		w.video = a
		return nil
	}
}
