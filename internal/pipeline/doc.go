// Package pipeline implements the media ingestion pipeline: image and video
// compression followed by object store upload.
//
// Images are re-encoded into a guaranteed target format (JPEG by default,
// WebP via ffmpeg) within approximate size and dimension bounds. Videos at
// or above 50 MB are transcoded to a constrained H.264/AAC mp4 profile with
// fractional progress reporting; smaller videos pass through unchanged.
// Transcoding is performed with FFmpeg and requires it to be installed and
// available in the system PATH.
package pipeline
