// Package metrics defines the Prometheus metrics exported by the service.
//
// Metrics cover the HTTP surface, the media ingestion pipeline (compression
// and object store uploads), and the contributor cache/fallback chain.
package metrics
