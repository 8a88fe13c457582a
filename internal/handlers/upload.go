package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"showcase-media/internal/logging"
	"showcase-media/internal/pipeline"
	"showcase-media/internal/upload"

	"github.com/gorilla/mux"
)

// multipartMemoryLimit is how much of the multipart body is held in memory
// before spilling to disk.
const multipartMemoryLimit = 32 << 20

// UploadResponse is returned from a completed upload request.
type UploadResponse struct {
	UploadID string         `json:"uploadId"`
	Result   *upload.Result `json:"result"`
}

// Upload runs a single file through the ingestion pipeline. The request is
// multipart/form-data with a "file" part plus optional "bucket", "folder"
// and "thumbnail" fields. The pipeline is sequential per upload; errors are
// logged, surfaced to the caller, and leave the tracker in the failed phase
// so the client resets its own state.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "invalid multipart request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logging.Error("failed to read upload body: %v", err)
		writeJSONError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	kind, err := pipeline.KindFor(contentType, header.Filename)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	bucket := r.FormValue("bucket")
	if bucket == "" {
		bucket = h.config.MediaBucket
	}

	withThumbnail := false
	if v := r.FormValue("thumbnail"); v != "" {
		withThumbnail, _ = strconv.ParseBool(v)
	}

	req := upload.Request{
		Filename:      header.Filename,
		ContentType:   contentType,
		Data:          data,
		Bucket:        bucket,
		Folder:        r.FormValue("folder"),
		WithThumbnail: withThumbnail,
	}

	id, machine := h.trackers.NewTracker(pipeline.CompressionWeightFor(kind))

	result, err := h.pipeline.Run(r.Context(), req, machine)
	if err != nil {
		logging.Error("upload %s failed for %s: %v", id, header.Filename, err)
		w.Header().Set("X-Upload-Id", id)
		writeJSONError(w, "upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, UploadResponse{UploadID: id, Result: result})
}

// UploadStatus returns the state machine snapshot for an upload tracker.
func (h *Handlers) UploadStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	machine := h.trackers.Get(id)
	if machine == nil {
		writeJSONError(w, "unknown upload", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, machine.Snapshot())
}
