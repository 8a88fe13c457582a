package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, kind := range []string{"image", "video"} {
		UploadsTotal.WithLabelValues(kind, "success")
		UploadsTotal.WithLabelValues(kind, "error")
		CompressionDuration.WithLabelValues(kind)
		CompressionBytesIn.WithLabelValues(kind)
		CompressionBytesOut.WithLabelValues(kind)
	}

	for _, artifact := range []string{"primary", "thumbnail"} {
		StorageUploadsTotal.WithLabelValues(artifact, "success")
		StorageUploadsTotal.WithLabelValues(artifact, "error")
		StorageUploadDuration.WithLabelValues(artifact)
	}

	for _, source := range []string{"cache", "live", "stale_cache", "fallback"} {
		ContributorRequestsTotal.WithLabelValues(source)
	}
}
