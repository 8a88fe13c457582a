// Package upload defines the upload request/result types and the explicit
// state machine that tracks a file through the ingestion pipeline.
//
// The lifecycle is idle -> compressing -> uploading -> succeeded, with
// failed reachable from any in-flight phase. Progress from the two stages
// is combined into a single 0-100 scalar for clients.
package upload
