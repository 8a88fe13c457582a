// Package handlers implements the HTTP handlers for the showcase media
// service: upload ingestion, upload progress, the contributor list, and the
// health/version endpoints.
package handlers
