package pipeline

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"showcase-media/internal/logging"
	"showcase-media/internal/metrics"
	"showcase-media/internal/storage"
	"showcase-media/internal/upload"
)

// thumbnailFrameOffset is where the still frame for video thumbnails is taken.
const thumbnailFrameOffset = 1 * time.Second

// videoCompressionWeight is the share of the combined progress scalar given
// to the compression stage for video uploads. Image compression is
// synchronous, so image uploads report upload progress across the full range.
const videoCompressionWeight = 0.6

// Pipeline runs a single upload through compress -> store -> report.
// Each stage is awaited sequentially; there is no queueing, batching, or
// parallel upload support.
type Pipeline struct {
	images *ImageStage
	engine *Engine
	store  *storage.Client
}

// New wires the pipeline stages together.
func New(images *ImageStage, engine *Engine, store *storage.Client) *Pipeline {
	return &Pipeline{
		images: images,
		engine: engine,
		store:  store,
	}
}

// KindFor classifies a request by content type, falling back to the filename
// extension when the declared type is missing or inconclusive (browsers often
// send application/octet-stream).
func KindFor(contentType, filename string) (upload.Kind, error) {
	candidates := []string{
		contentType,
		mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))),
	}

	for _, ct := range candidates {
		switch {
		case strings.HasPrefix(ct, "image/"):
			return upload.KindImage, nil
		case strings.HasPrefix(ct, "video/"):
			return upload.KindVideo, nil
		}
	}

	return "", fmt.Errorf("unsupported content type %q for %q", contentType, filename)
}

// CompressionWeightFor returns the progress weight for a request kind,
// used when creating the request's tracker.
func CompressionWeightFor(kind upload.Kind) float64 {
	if kind == upload.KindVideo {
		return videoCompressionWeight
	}
	return 0
}

// Run executes the pipeline for one request, driving the state machine
// through its lifecycle. On any error the machine is moved to failed and
// the error is returned for the handler to surface; there is no retry.
func (p *Pipeline) Run(ctx context.Context, req upload.Request, m *upload.Machine) (*upload.Result, error) {
	kind, err := KindFor(req.ContentType, req.Filename)
	if err != nil {
		return nil, p.fail(m, kind, err)
	}

	if err := m.StartCompressing(); err != nil {
		return nil, err
	}

	start := time.Now()

	var primary storage.Artifact
	var thumbnail *storage.Artifact

	switch kind {
	case upload.KindImage:
		primary, thumbnail, err = p.compressImage(ctx, req)
	case upload.KindVideo:
		primary, thumbnail, err = p.compressVideo(ctx, req, m)
	}
	if err != nil {
		return nil, p.fail(m, kind, fmt.Errorf("compression failed: %w", err))
	}

	metrics.CompressionDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.CompressionBytesIn.WithLabelValues(string(kind)).Add(float64(len(req.Data)))
	metrics.CompressionBytesOut.WithLabelValues(string(kind)).Add(float64(len(primary.Data)))

	if err := m.StartUploading(); err != nil {
		return nil, err
	}

	out, err := p.store.Upload(ctx, storage.UploadInput{
		Bucket:     req.Bucket,
		Folder:     req.Folder,
		Primary:    primary,
		Thumbnail:  thumbnail,
		OnProgress: m.SetUploadProgress,
	})
	if err != nil {
		return nil, p.fail(m, kind, err)
	}

	result := upload.Result{
		URL:          out.URL,
		ThumbnailURL: out.ThumbnailURL,
		Path:         out.Path,
	}
	if err := m.Succeed(result); err != nil {
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(string(kind), "success").Inc()
	logging.Info("upload complete: %s -> %s", req.Filename, result.Path)
	return &result, nil
}

func (p *Pipeline) compressImage(ctx context.Context, req upload.Request) (storage.Artifact, *storage.Artifact, error) {
	primary, err := p.images.Compress(ctx, req.Data, DefaultImageOptions())
	if err != nil {
		return storage.Artifact{}, nil, err
	}

	var thumbnail *storage.Artifact
	if req.WithThumbnail {
		thumb, err := p.images.Thumbnail(ctx, req.Data)
		if err != nil {
			// Thumbnail generation is best-effort; the primary artifact
			// is authoritative.
			logging.Warn("image thumbnail generation failed for %s: %v", req.Filename, err)
		} else {
			thumbnail = &thumb
		}
	}

	return primary, thumbnail, nil
}

func (p *Pipeline) compressVideo(ctx context.Context, req upload.Request, m *upload.Machine) (storage.Artifact, *storage.Artifact, error) {
	data, transcoded, err := p.engine.Compress(ctx, req.Data, m.SetCompressionProgress)
	if err != nil {
		return storage.Artifact{}, nil, err
	}

	primary := storage.Artifact{Data: data, ContentType: "video/mp4", Ext: ".mp4"}
	if !transcoded {
		// Pass-through keeps the original container and extension.
		primary.ContentType = req.ContentType
		if primary.ContentType == "" {
			primary.ContentType = "video/mp4"
		}
		if ext := filepath.Ext(req.Filename); ext != "" {
			primary.Ext = strings.ToLower(ext)
		}
	}

	var thumbnail *storage.Artifact
	if req.WithThumbnail {
		frame, err := p.engine.ExtractFrame(ctx, data, thumbnailFrameOffset)
		if err != nil {
			logging.Warn("video thumbnail frame extraction failed for %s: %v", req.Filename, err)
		} else {
			thumb, err := p.images.Thumbnail(ctx, frame)
			if err != nil {
				logging.Warn("video thumbnail encode failed for %s: %v", req.Filename, err)
			} else {
				thumbnail = &thumb
			}
		}
	}

	return primary, thumbnail, nil
}

// fail records the error on the state machine and counts the failed run.
func (p *Pipeline) fail(m *upload.Machine, kind upload.Kind, err error) error {
	if kind == "" {
		kind = "image"
	}
	metrics.UploadsTotal.WithLabelValues(string(kind), "error").Inc()
	if ferr := m.Fail(err); ferr != nil {
		logging.Debug("state machine fail transition rejected: %v", ferr)
	}
	return err
}
