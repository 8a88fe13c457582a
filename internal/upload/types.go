package upload

// Kind classifies the payload of an upload request.
type Kind string

const (
	// KindImage is a still image payload.
	KindImage Kind = "image"
	// KindVideo is a video payload.
	KindVideo Kind = "video"
)

// Request describes a single file handed to the ingestion pipeline.
// A request is consumed exactly once; it has no identity beyond the
// pipeline run it belongs to.
type Request struct {
	Filename      string
	ContentType   string
	Data          []byte
	Bucket        string
	Folder        string
	WithThumbnail bool
}

// Result is produced at the end of a successful pipeline run. Ownership
// transfers to the caller immediately.
type Result struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Path         string `json:"path"`
}
