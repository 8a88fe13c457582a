package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showcase_media_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "showcase_media_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Pipeline metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_uploads_total",
			Help: "Total number of upload pipeline runs",
		},
		[]string{"kind", "status"}, // kind: "image", "video"
	)

	CompressionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showcase_media_compression_duration_seconds",
			Help:    "Duration of the compression stage in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	CompressionBytesIn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_compression_bytes_in_total",
			Help: "Total bytes received by the compression stage",
		},
		[]string{"kind"},
	)

	CompressionBytesOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_compression_bytes_out_total",
			Help: "Total bytes produced by the compression stage",
		},
		[]string{"kind"},
	)

	TranscodeQueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showcase_media_transcode_queue_wait_seconds",
			Help:    "Time spent waiting for the transcode engine slot",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)
)

// Storage metrics
var (
	StorageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_storage_uploads_total",
			Help: "Total number of object store uploads",
		},
		[]string{"artifact", "status"}, // artifact: "primary", "thumbnail"
	)

	StorageUploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showcase_media_storage_upload_duration_seconds",
			Help:    "Object store upload duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"artifact"},
	)
)

// Contributor metrics
var (
	ContributorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_media_contributor_requests_total",
			Help: "Total contributor list requests by resolution source",
		},
		[]string{"source"}, // "cache", "live", "stale_cache", "fallback"
	)

	ContributorFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showcase_media_contributor_fetch_duration_seconds",
			Help:    "Duration of live contributor fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
