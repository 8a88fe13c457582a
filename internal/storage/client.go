package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"showcase-media/internal/logging"
	"showcase-media/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 API the client needs. Tests substitute
// a fake; production passes *s3.Client.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds the settings needed to reach the object store.
type Config struct {
	Endpoint  string
	PublicKey string
	SecretKey string
	Region    string
	// PublicBaseURL is the base used to resolve public object URLs,
	// typically the endpoint itself for path-style stores.
	PublicBaseURL string
}

// Artifact is a processed file ready for upload.
type Artifact struct {
	Data        []byte
	ContentType string
	Ext         string // extension matching the target encoding, e.g. ".jpg"
}

// UploadInput describes one pipeline output to push to the store.
type UploadInput struct {
	Bucket    string
	Folder    string
	Primary   Artifact
	Thumbnail *Artifact // optional; uploaded under a parallel thumbnails/ prefix
	// OnProgress receives the primary upload progress as a 0-1 fraction.
	OnProgress func(frac float64)
}

// UploadOutput carries the resolved public URLs and the storage path used.
type UploadOutput struct {
	URL          string
	ThumbnailURL string
	Path         string
}

// Client uploads artifacts to the object store and resolves public URLs.
// The API handle is passed in explicitly so the dependency stays visible
// and substitutable.
type Client struct {
	api           PutObjectAPI
	publicBaseURL string
}

// New builds a Client backed by a real S3 client for a path-style,
// S3-compatible endpoint with static credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.PublicKey == "" {
		return nil, fmt.Errorf("storage endpoint and public key are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.PublicKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}

	return NewWithAPI(client, base), nil
}

// NewWithAPI builds a Client around an existing API handle.
func NewWithAPI(api PutObjectAPI, publicBaseURL string) *Client {
	return &Client{
		api:           api,
		publicBaseURL: publicBaseURL,
	}
}

// Upload pushes the primary artifact and, if present, its thumbnail.
// A primary upload failure is fatal to the operation. A thumbnail upload
// failure is logged and the thumbnail URL is simply omitted from the result.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	name := ObjectName(in.Primary.Ext)
	key := ObjectKey(in.Folder, name)

	if err := c.putObject(ctx, in.Bucket, key, in.Primary, in.OnProgress, "primary"); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	out := &UploadOutput{
		URL:  c.PublicURL(in.Bucket, key),
		Path: key,
	}

	if in.Thumbnail != nil {
		thumbKey := ThumbnailKey(in.Folder, ObjectName(in.Thumbnail.Ext))
		if err := c.putObject(ctx, in.Bucket, thumbKey, *in.Thumbnail, nil, "thumbnail"); err != nil {
			logging.Warn("thumbnail upload failed for %s, continuing without thumbnail: %v", key, err)
		} else {
			out.ThumbnailURL = c.PublicURL(in.Bucket, thumbKey)
		}
	}

	return out, nil
}

func (c *Client) putObject(ctx context.Context, bucket, key string, artifact Artifact, onProgress func(float64), label string) error {
	start := time.Now()

	var body io.Reader = newProgressReader(artifact.Data, onProgress)

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(artifact.ContentType),
		ContentLength: aws.Int64(int64(len(artifact.Data))),
	})

	if err != nil {
		metrics.StorageUploadsTotal.WithLabelValues(label, "error").Inc()
		return err
	}

	metrics.StorageUploadsTotal.WithLabelValues(label, "success").Inc()
	metrics.StorageUploadDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	logging.Debug("uploaded %s/%s (%d bytes, %s)", bucket, key, len(artifact.Data), artifact.ContentType)
	return nil
}

// PublicURL resolves the public URL for an uploaded object.
func (c *Client) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, bucket, key)
}
