package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"showcase-media/internal/logging"
	"showcase-media/internal/storage"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// Image target formats. JPEG is the default lossy web-friendly encoding;
// WebP is produced through an ffmpeg re-encode pass since the Go ecosystem
// has no native webp encoder.
const (
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
)

// minJPEGQuality is the floor for the size-bound quality stepdown.
const minJPEGQuality = 40

// ImageOptions bound the output of the image compression stage.
type ImageOptions struct {
	MaxSizeMB    float64
	MaxDimension int     // maximum width-or-height in pixels
	Quality      float64 // 0-1
	TargetFormat string  // FormatJPEG (default) or FormatWebP
}

// DefaultImageOptions returns the bounds used for primary image artifacts.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		MaxSizeMB:    1,
		MaxDimension: 1920,
		Quality:      0.8,
		TargetFormat: FormatJPEG,
	}
}

// ThumbnailImageOptions returns the tighter bounds used for thumbnails.
func ThumbnailImageOptions() ImageOptions {
	return ImageOptions{
		MaxSizeMB:    0.2,
		MaxDimension: 320,
		Quality:      0.7,
		TargetFormat: FormatJPEG,
	}
}

// ImageStage re-encodes images into a guaranteed target format within
// approximate size and dimension bounds. WebP output is delegated to the
// ffmpeg engine.
type ImageStage struct {
	engine *Engine
}

// NewImageStage creates an image compression stage. The engine is only used
// for WebP output and may be nil if WebP is never requested.
func NewImageStage(engine *Engine) *ImageStage {
	return &ImageStage{engine: engine}
}

// Compress decodes the source image, resizes it to fit the dimension bound,
// and re-encodes it in the target format. The output always carries the
// target encoding regardless of the source format. If the encoded result
// exceeds the size bound the quality is stepped down until it fits or the
// quality floor is reached.
func (s *ImageStage) Compress(ctx context.Context, data []byte, opts ImageOptions) (storage.Artifact, error) {
	if opts.TargetFormat == "" {
		opts.TargetFormat = FormatJPEG
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultImageOptions().MaxDimension
	}

	img, err := s.decode(data, opts.MaxDimension)
	if err != nil {
		return storage.Artifact{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > opts.MaxDimension || bounds.Dy() > opts.MaxDimension {
		img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
	}

	encoded, err := s.encode(ctx, img, opts)
	if err != nil {
		return storage.Artifact{}, err
	}
	if len(encoded) == 0 {
		return storage.Artifact{}, fmt.Errorf("image encode produced no data")
	}

	switch opts.TargetFormat {
	case FormatWebP:
		return storage.Artifact{Data: encoded, ContentType: "image/webp", Ext: ".webp"}, nil
	default:
		return storage.Artifact{Data: encoded, ContentType: "image/jpeg", Ext: ".jpg"}, nil
	}
}

// Thumbnail is a secondary call with tighter bounds producing a smaller
// variant of the same image.
func (s *ImageStage) Thumbnail(ctx context.Context, data []byte) (storage.Artifact, error) {
	return s.Compress(ctx, data, ThumbnailImageOptions())
}

// decode loads the source image, preferring the libvips fast path with
// decode-time shrinking and falling back to the pure-Go decoders.
func (s *ImageStage) decode(data []byte, maxDimension int) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := decodeWithVips(data, maxDimension, maxDimension)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips decode failed, falling back to imaging: %v", err)
	}

	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func (s *ImageStage) encode(ctx context.Context, img image.Image, opts ImageOptions) ([]byte, error) {
	quality := int(opts.Quality * 100)
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	maxBytes := int64(opts.MaxSizeMB * 1024 * 1024)

	// Encode, stepping quality down while the result exceeds the size bound.
	// The bound is approximate: the quality floor wins over the byte limit.
	var encoded []byte
	for {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		encoded = buf.Bytes()

		if maxBytes <= 0 || int64(len(encoded)) <= maxBytes || quality <= minJPEGQuality {
			break
		}
		quality -= 10
		if quality < minJPEGQuality {
			quality = minJPEGQuality
		}
		logging.Debug("image exceeds %d bytes, retrying at quality %d", maxBytes, quality)
	}

	if opts.TargetFormat == FormatWebP {
		if s.engine == nil {
			return nil, fmt.Errorf("webp encoding requires the ffmpeg engine")
		}
		webp, err := s.engine.EncodeWebP(ctx, encoded, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
		return webp, nil
	}

	return encoded, nil
}
