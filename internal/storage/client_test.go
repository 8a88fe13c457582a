package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket      string
	key         string
	contentType string
	body        []byte
}

// fakePutAPI records PutObject calls and fails selectively by key substring.
type fakePutAPI struct {
	calls       []putCall
	failMatches string // fail any key containing this substring
	failAll     bool
}

func (f *fakePutAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	key := *in.Key
	if f.failAll || (f.failMatches != "" && strings.Contains(key, f.failMatches)) {
		return nil, errors.New("simulated store failure")
	}

	f.calls = append(f.calls, putCall{
		bucket:      *in.Bucket,
		key:         key,
		contentType: *in.ContentType,
		body:        body,
	})
	return &s3.PutObjectOutput{}, nil
}

func TestUploadPrimaryOnly(t *testing.T) {
	fake := &fakePutAPI{}
	c := NewWithAPI(fake, "https://cdn.example")

	out, err := c.Upload(context.Background(), UploadInput{
		Bucket:  "media",
		Folder:  "posts",
		Primary: Artifact{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, "media", call.bucket)
	assert.True(t, strings.HasPrefix(call.key, "posts/"), "key %q missing folder prefix", call.key)
	assert.True(t, strings.HasSuffix(call.key, ".jpg"))
	assert.Equal(t, "image/jpeg", call.contentType)
	assert.Equal(t, []byte("jpeg-bytes"), call.body)

	assert.Equal(t, call.key, out.Path)
	assert.Equal(t, "https://cdn.example/media/"+call.key, out.URL)
	assert.Empty(t, out.ThumbnailURL)
}

func TestUploadWithThumbnail(t *testing.T) {
	fake := &fakePutAPI{}
	c := NewWithAPI(fake, "https://cdn.example")

	out, err := c.Upload(context.Background(), UploadInput{
		Bucket:    "media",
		Folder:    "posts",
		Primary:   Artifact{Data: []byte("full"), ContentType: "image/jpeg", Ext: ".jpg"},
		Thumbnail: &Artifact{Data: []byte("small"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.NotContains(t, fake.calls[0].key, "thumbnails/")
	assert.Contains(t, fake.calls[1].key, "posts/thumbnails/")

	assert.NotEmpty(t, out.ThumbnailURL)
	assert.Equal(t, "https://cdn.example/media/"+fake.calls[1].key, out.ThumbnailURL)
}

func TestUploadPrimaryFailureIsFatal(t *testing.T) {
	fake := &fakePutAPI{failAll: true}
	c := NewWithAPI(fake, "https://cdn.example")

	out, err := c.Upload(context.Background(), UploadInput{
		Bucket:  "media",
		Primary: Artifact{Data: []byte("full"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestUploadThumbnailFailureIsNotFatal(t *testing.T) {
	fake := &fakePutAPI{failMatches: "thumbnails/"}
	c := NewWithAPI(fake, "https://cdn.example")

	out, err := c.Upload(context.Background(), UploadInput{
		Bucket:    "media",
		Folder:    "posts",
		Primary:   Artifact{Data: []byte("full"), ContentType: "image/jpeg", Ext: ".jpg"},
		Thumbnail: &Artifact{Data: []byte("small"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.URL, "primary URL must survive a thumbnail failure")
	assert.Empty(t, out.ThumbnailURL, "failed thumbnail must be omitted, not errored")
}

func TestUploadReportsProgress(t *testing.T) {
	fake := &fakePutAPI{}
	c := NewWithAPI(fake, "https://cdn.example")

	var last float64
	_, err := c.Upload(context.Background(), UploadInput{
		Bucket:     "media",
		Primary:    Artifact{Data: []byte(strings.Repeat("x", 4096)), ContentType: "image/jpeg", Ext: ".jpg"},
		OnProgress: func(frac float64) { last = frac },
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, last, 0.001, "progress should reach 1 once the body is fully read")
}

func TestPublicURL(t *testing.T) {
	c := NewWithAPI(&fakePutAPI{}, "https://cdn.example")
	assert.Equal(t, "https://cdn.example/media/posts/a.jpg", c.PublicURL("media", "posts/a.jpg"))
}

func TestProgressReaderFractions(t *testing.T) {
	var fracs []float64
	r := newProgressReader([]byte("0123456789"), func(f float64) { fracs = append(fracs, f) })

	buf := make([]byte, 4)
	for {
		if _, err := r.Read(buf); err != nil {
			break
		}
	}

	require.NotEmpty(t, fracs)
	assert.InDelta(t, 0.4, fracs[0], 0.001)
	assert.InDelta(t, 1.0, fracs[len(fracs)-1], 0.001)
}

func TestProgressReaderNilCallback(t *testing.T) {
	r := newProgressReader([]byte("data"), nil)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), out)
}
