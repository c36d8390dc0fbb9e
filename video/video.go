// Package video narrows short clips to the still-image watermark
// pipeline: it probes a clip, extracts its first frame, and splices a
// watermarked frame back in over the first frame's time window. All
// heavy lifting runs in external ffmpeg/ffprobe subprocesses treated as
// untrusted; every failure is recoverable by the caller and every
// temporary file is removed on every exit path.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrClipTooLong reports a clip over the configured duration limit.
	// Validation happens in Probe, before any frame work begins.
	ErrClipTooLong = errors.New("clip exceeds the maximum duration")
	// ErrNoVideoStream reports input without a usable video stream.
	ErrNoVideoStream = errors.New("input has no video stream")
)

// MediaProcessingError reports a subprocess or transcode failure,
// distinct from codec and capacity errors. Retryable.
type MediaProcessingError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *MediaProcessingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("media processing failed in %s: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("media processing failed in %s: %v", e.Op, e.Err)
}

func (e *MediaProcessingError) Unwrap() error { return e.Err }

// Config is the subprocess configuration, loadable from the environment.
type Config struct {
	FFmpegPath     string  `envconfig:"STEGOMARK_FFMPEG" default:"ffmpeg"`
	FFprobePath    string  `envconfig:"STEGOMARK_FFPROBE" default:"ffprobe"`
	MaxClipSeconds float64 `envconfig:"STEGOMARK_MAX_CLIP_SECONDS" default:"10"`
	TimeoutSeconds int     `envconfig:"STEGOMARK_SUBPROCESS_TIMEOUT" default:"60"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process video config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults: ffmpeg/ffprobe on PATH,
// a 10 second clip limit and a 60 second subprocess timeout.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		MaxClipSeconds: 10,
		TimeoutSeconds: 60,
	}
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Info is the probed shape of a clip.
type Info struct {
	Duration time.Duration
	Width    int
	Height   int
}

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Adapter runs the video pipeline. Each call owns a uniquely named
// temporary directory, so any number of operations may run concurrently.
type Adapter struct {
	cfg Config
	run runner
}

// NewAdapter creates an Adapter with the given configuration.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg, run: runCommand}
}

// Probe inspects the clip and rejects anything over the configured
// maximum duration before frame work begins.
func (a *Adapter) Probe(ctx context.Context, path string) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	out, err := a.run(ctx, a.cfg.FFprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		path,
	)
	if err != nil {
		return Info{}, err
	}
	info, err := parseProbeOutput(out)
	if err != nil {
		return Info{}, err
	}
	if limit := a.cfg.MaxClipSeconds; limit > 0 && info.Duration.Seconds() > limit {
		return Info{}, fmt.Errorf("%w: %.1fs > %.1fs", ErrClipTooLong, info.Duration.Seconds(), limit)
	}
	return info, nil
}

// ExtractFirstFrame decodes the clip's first frame. The first frame is
// the deterministic representative of the whole clip.
func (a *Adapter) ExtractFirstFrame(ctx context.Context, path string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	dir, err := os.MkdirTemp("", "stegomark-video-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	framePath := filepath.Join(dir, "frame.png")
	if _, err := a.run(ctx, a.cfg.FFmpegPath,
		"-v", "error",
		"-y",
		"-i", path,
		"-frames:v", "1",
		"-c:v", "png",
		framePath,
	); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(framePath)
	if err != nil {
		return nil, &MediaProcessingError{Op: "extract-frame", Err: err}
	}
	frame, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &MediaProcessingError{Op: "extract-frame", Err: err}
	}
	return frame, nil
}

// ReinjectFirstFrame writes the clip to outPath with frame overlaid on
// the first frame only. The video stream is encoded with lossless RGB
// H.264 (libx264rgb, qp 0): a lossy or chroma-subsampled encode would
// erase the least significant bits the frame carries. The audio stream
// is copied bit for bit.
func (a *Adapter) ReinjectFirstFrame(ctx context.Context, inPath string, frame image.Image, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.timeout())
	defer cancel()

	dir, err := os.MkdirTemp("", "stegomark-video-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	framePath := filepath.Join(dir, "frame.png")
	f, err := os.Create(framePath)
	if err != nil {
		return &MediaProcessingError{Op: "reinject-frame", Err: err}
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return &MediaProcessingError{Op: "reinject-frame", Err: err}
	}
	if err := f.Close(); err != nil {
		return &MediaProcessingError{Op: "reinject-frame", Err: err}
	}

	_, err = a.run(ctx, a.cfg.FFmpegPath,
		"-v", "error",
		"-y",
		"-i", inPath,
		"-i", framePath,
		"-filter_complex", "[0:v][1:v]overlay=enable='eq(n,0)'",
		"-c:v", "libx264rgb",
		"-qp", "0",
		"-c:a", "copy",
		outPath,
	)
	return err
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(out []byte) (Info, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return Info{}, &MediaProcessingError{Op: "probe", Err: err}
	}
	if len(probed.Streams) == 0 {
		return Info{}, ErrNoVideoStream
	}
	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return Info{}, &MediaProcessingError{Op: "probe", Err: fmt.Errorf("parse duration %q: %w", probed.Format.Duration, err)}
	}
	return Info{
		Duration: time.Duration(seconds * float64(time.Second)),
		Width:    probed.Streams[0].Width,
		Height:   probed.Streams[0].Height,
	}, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &MediaProcessingError{
			Op:     filepath.Base(name),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
