package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showcase-media/internal/contributors"
	"showcase-media/internal/handlers"
	"showcase-media/internal/logging"
	"showcase-media/internal/metrics"
	"showcase-media/internal/middleware"
	"showcase-media/internal/pipeline"
	"showcase-media/internal/startup"
	"showcase-media/internal/storage"
	"showcase-media/internal/upload"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Metrics
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		go serveMetrics(config.MetricsPort)
	}

	// Initialize libvips for the image fast path (best-effort)
	if err := pipeline.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using pure-Go image path: %v", err)
	}

	// Initialize transcode engine
	startup.LogTranscoderInit(config.TranscodingEnabled)
	engine := pipeline.NewEngine(config.TranscodeDir, config.TranscodingEnabled)

	// Initialize object store client
	storeStart := time.Now()
	store, err := storage.New(context.Background(), storage.Config{
		Endpoint:      config.StorageEndpoint,
		PublicKey:     config.StoragePublicKey,
		SecretKey:     config.StorageSecretKey,
		Region:        config.StorageRegion,
		PublicBaseURL: config.StoragePublicURL,
	})
	if err != nil {
		startup.LogFatal("Failed to initialize storage client: %v", err)
	}
	startup.LogStorageInit(config.StorageEndpoint, config.MediaBucket, time.Since(storeStart))

	// Assemble the ingestion pipeline
	images := pipeline.NewImageStage(engine)
	pipe := pipeline.New(images, engine, store)
	trackers := upload.NewRegistry()

	// Contributor service with its cache/fallback chain
	contribs := contributors.NewService(
		contributors.NewClient(config.ContributorAPIBase, config.GitHubOwner, config.GitHubRepo),
		contributors.NewCache(config.ContributorCachePath),
		config.GitHubOwner,
		config.ContributorTTL,
	)

	// Initialize handlers
	h := handlers.New(pipe, trackers, contribs, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", h.Upload).Methods("POST")
	api.HandleFunc("/uploads/{id}", h.UploadStatus).Methods("GET")
	api.HandleFunc("/contributors", h.GetContributors).Methods("GET")

	return r
}

func serveMetrics(port string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(":"+port, metricsMux); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Releasing image library resources")
	pipeline.ShutdownVips()
	startup.LogShutdownStepComplete("Image library shutdown complete")

	startup.LogShutdownComplete()
}
