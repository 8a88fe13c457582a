package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"showcase-media/internal/logging"
	"showcase-media/internal/metrics"
)

// CompressThresholdBytes is the size at or above which videos are
// transcoded. Smaller files pass through unchanged.
const CompressThresholdBytes = 50 * 1024 * 1024

// Engine runs video work through ffmpeg/ffprobe. It is an explicitly owned
// handle with a single-slot gate: concurrent uploads serialize on the
// transcode slot instead of racing for CPU and scratch space.
type Engine struct {
	scratchDir string
	enabled    bool
	slot       chan struct{}
}

// NewEngine creates an Engine using scratchDir for intermediate files.
// When enabled is false, transcoding (and thus large video uploads) is
// rejected; pass-through and frame extraction still work.
func NewEngine(scratchDir string, enabled bool) *Engine {
	return &Engine{
		scratchDir: scratchDir,
		enabled:    enabled,
		slot:       make(chan struct{}, 1),
	}
}

// IsEnabled returns whether transcoding is enabled.
func (e *Engine) IsEnabled() bool {
	return e.enabled
}

// acquire takes the single transcode slot, blocking until it is free or the
// context is done.
func (e *Engine) acquire(ctx context.Context) error {
	start := time.Now()
	select {
	case e.slot <- struct{}{}:
		metrics.TranscodeQueueWait.Observe(time.Since(start).Seconds())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() {
	<-e.slot
}

// Compress transcodes data to the constrained H.264/AAC mp4 profile when it
// is at or above the size threshold, reporting fractional progress through
// onProgress. Files under the threshold are returned unchanged and the
// second return value is false.
func (e *Engine) Compress(ctx context.Context, data []byte, onProgress func(frac float64)) ([]byte, bool, error) {
	if int64(len(data)) < CompressThresholdBytes {
		logging.Debug("video under %d bytes, skipping transcode", int64(CompressThresholdBytes))
		return data, false, nil
	}

	if !e.enabled {
		return nil, false, fmt.Errorf("transcoding required but disabled (scratch directory not writable)")
	}

	if err := e.acquire(ctx); err != nil {
		return nil, false, err
	}
	defer e.release()

	inPath, err := e.writeScratch(data, "in-*.bin")
	if err != nil {
		return nil, false, err
	}
	defer removeScratch(inPath)

	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".mp4"
	defer removeScratch(outPath)

	duration, err := e.probeDuration(ctx, inPath)
	if err != nil {
		logging.Warn("could not probe video duration, progress will be coarse: %v", err)
		duration = 0
	}

	// Constrained profile: H.264 crf 28, width capped at 1920 with even
	// dimensions, AAC 128k audio, faststart for progressive playback.
	args := []string{
		"-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "28",
		"-vf", "scale='min(1920,iw)':-2",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		outPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, false, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	e.consumeProgress(stdout, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		logging.Error("FFmpeg stderr: %s", stderr.String())
		return nil, false, fmt.Errorf("transcoding error: %w", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read transcoded output: %w", err)
	}
	if len(out) == 0 {
		return nil, false, fmt.Errorf("transcode produced an empty file")
	}

	logging.Info("transcoded video: %d -> %d bytes", len(data), len(out))
	return out, true, nil
}

// consumeProgress parses ffmpeg -progress key=value output and reports
// out_time_us against the probed duration as a 0-1 fraction.
func (e *Engine) consumeProgress(r io.Reader, duration float64, onProgress func(frac float64)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if line == "progress=end" {
			if onProgress != nil {
				onProgress(1)
			}
			continue
		}

		value, ok := strings.CutPrefix(line, "out_time_us=")
		if !ok {
			continue
		}

		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || duration <= 0 || onProgress == nil {
			continue
		}

		frac := float64(us) / 1e6 / duration
		if frac > 1 {
			frac = 1
		}
		onProgress(frac)
	}
}

// ExtractFrame extracts a single still frame at the given timestamp as PNG
// bytes, falling back to the first frame when seeking fails.
func (e *Engine) ExtractFrame(ctx context.Context, data []byte, timestamp time.Duration) ([]byte, error) {
	inPath, err := e.writeScratch(data, "frame-*.bin")
	if err != nil {
		return nil, err
	}
	defer removeScratch(inPath)

	out, err := e.runFrameExtract(ctx, inPath, timestamp)
	if err != nil {
		logging.Debug("frame extract at %v failed, retrying at start: %v", timestamp, err)
		out, err = e.runFrameExtract(ctx, inPath, -1)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (e *Engine) runFrameExtract(ctx context.Context, inPath string, timestamp time.Duration) ([]byte, error) {
	args := []string{}
	if timestamp >= 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", timestamp.Seconds()))
	}
	args = append(args,
		"-i", inPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame output")
	}

	return stdout.Bytes(), nil
}

// EncodeWebP re-encodes a single image (any ffmpeg-decodable format) as webp
// at the given quality.
func (e *Engine) EncodeWebP(ctx context.Context, data []byte, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", "pipe:0",
		"-frames:v", "1",
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(quality),
		"-f", "webp",
		"pipe:1",
	)

	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg webp encode failed: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg webp encode produced no output")
	}

	return stdout.Bytes(), nil
}

// probeDuration returns the container duration in seconds via ffprobe.
func (e *Engine) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable duration %q: %w", stdout.String(), err)
	}

	return duration, nil
}

func (e *Engine) writeScratch(data []byte, pattern string) (string, error) {
	f, err := os.CreateTemp(e.scratchDir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		removeScratch(f.Name())
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		removeScratch(f.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}

	return f.Name(), nil
}

func removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove scratch file %s: %v", path, err)
	}
}
