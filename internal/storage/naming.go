package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectName produces a collision-resistant filename: current timestamp in
// unix milliseconds plus a short random suffix, with the extension matching
// the target encoding.
func ObjectName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// ObjectKey joins the optional folder prefix with the object name.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// ThumbnailKey places a thumbnail under a thumbnails/ prefix parallel to the
// primary artifact.
func ThumbnailKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return path.Join("thumbnails", name)
	}
	return path.Join(folder, "thumbnails", name)
}
