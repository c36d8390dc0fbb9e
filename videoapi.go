package stegomark

import (
	"context"

	"github.com/yyyoichi/stegomark/payload"
	"github.com/yyyoichi/stegomark/verify"
)

// EmbedVideo embeds rec into the first frame of the clip at inPath and
// writes the result to outPath. The clip is probed first; anything over
// the adapter's duration limit is rejected before frame work begins.
// Only the first frame's time window is replaced, the audio stream is
// copied unchanged.
func (w *Watermark) EmbedVideo(ctx context.Context, inPath, outPath string, rec payload.Record) error {
	if _, err := w.video.Probe(ctx, inPath); err != nil {
		return err
	}
	frame, err := w.video.ExtractFirstFrame(ctx, inPath)
	if err != nil {
		return err
	}
	marked, err := w.Embed(ctx, frame, rec)
	if err != nil {
		return err
	}
	return w.video.ReinjectFirstFrame(ctx, inPath, marked, outPath)
}

// ExtractVideo extracts the watermark record from the clip's first frame.
func (w *Watermark) ExtractVideo(ctx context.Context, path string) (payload.Record, bool, error) {
	if _, err := w.video.Probe(ctx, path); err != nil {
		return payload.Record{}, false, err
	}
	frame, err := w.video.ExtractFirstFrame(ctx, path)
	if err != nil {
		return payload.Record{}, false, err
	}
	return w.Extract(ctx, frame)
}

// VerifyVideo classifies the clip's first frame. No manifest
// collaborator is consulted on the container level; clips carry the
// watermark only.
func (w *Watermark) VerifyVideo(ctx context.Context, path string) (verify.Outcome, error) {
	rec, found, err := w.ExtractVideo(ctx, path)
	if err != nil {
		return verify.Outcome{}, err
	}
	var rp *payload.Record
	if found {
		rp = &rec
	}
	return verify.Decide(rp, verify.ManifestAbsent), nil
}
