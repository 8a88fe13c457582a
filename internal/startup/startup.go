package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"showcase-media/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	// Object store settings. Endpoint and public key are required;
	// the storage client cannot initialize without them.
	StorageEndpoint  string
	StoragePublicKey string
	StorageSecretKey string
	StorageRegion    string
	StoragePublicURL string
	MediaBucket      string

	// Contributor source settings
	GitHubOwner        string
	GitHubRepo         string
	ContributorTTL     time.Duration
	ContributorAPIBase string

	CacheDir        string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogHealthChecks bool
	MaxUploadBytes  int64

	// Derived paths
	TranscodeDir         string
	ContributorCachePath string

	// Feature flags based on directory availability
	TranscodingEnabled bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	storageEndpoint := os.Getenv("STORAGE_ENDPOINT")
	storagePublicKey := os.Getenv("STORAGE_PUBLIC_KEY")
	storageSecretKey := os.Getenv("STORAGE_SECRET_KEY")
	storageRegion := getEnv("STORAGE_REGION", "us-east-1")
	storagePublicURL := getEnv("STORAGE_PUBLIC_URL", storageEndpoint)
	mediaBucket := getEnv("MEDIA_BUCKET", "media")
	githubOwner := getEnv("GITHUB_OWNER", "showcase-community")
	githubRepo := getEnv("GITHUB_REPO", "showcase")
	contributorAPIBase := getEnv("GITHUB_API_BASE", "https://api.github.com")
	contributorTTLStr := getEnv("CONTRIBUTOR_CACHE_TTL", "5m")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	maxUploadMB := getEnvInt("MAX_UPLOAD_MB", 512)

	logging.Info("  STORAGE_ENDPOINT:      %s", storageEndpoint)
	logging.Info("  STORAGE_PUBLIC_KEY:    %s", maskKey(storagePublicKey))
	logging.Info("  STORAGE_REGION:        %s", storageRegion)
	logging.Info("  STORAGE_PUBLIC_URL:    %s", storagePublicURL)
	logging.Info("  MEDIA_BUCKET:          %s", mediaBucket)
	logging.Info("  GITHUB_OWNER:          %s", githubOwner)
	logging.Info("  GITHUB_REPO:           %s", githubRepo)
	logging.Info("  CONTRIBUTOR_CACHE_TTL: %s", contributorTTLStr)
	logging.Info("  CACHE_DIR:             %s", cacheDir)
	logging.Info("  PORT:                  %s", port)
	logging.Info("  METRICS_PORT:          %s", metricsPort)
	logging.Info("  METRICS_ENABLED:       %v", metricsEnabled)
	logging.Info("  MAX_UPLOAD_MB:         %d", maxUploadMB)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())

	if storageEndpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if storagePublicKey == "" {
		return nil, fmt.Errorf("STORAGE_PUBLIC_KEY is required")
	}
	if storageSecretKey == "" {
		logging.Warn("  STORAGE_SECRET_KEY is empty; uploads will be unsigned")
	}

	contributorTTL, err := time.ParseDuration(contributorTTLStr)
	if err != nil {
		logging.Warn("  Invalid CONTRIBUTOR_CACHE_TTL, using default: 5m")
		contributorTTL = 5 * time.Minute
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	if err := ensureDirectory(cacheDir, "cache"); err != nil {
		return nil, fmt.Errorf("cache directory error: %w", err)
	}

	logging.Debug("  Testing cache directory write access...")
	if err := testWriteAccess(cacheDir); err != nil {
		return nil, fmt.Errorf("cache directory is not writable (required for contributor cache): %w", err)
	}
	logging.Info("  [OK] Cache directory is writable")

	config := &Config{
		StorageEndpoint:      storageEndpoint,
		StoragePublicKey:     storagePublicKey,
		StorageSecretKey:     storageSecretKey,
		StorageRegion:        storageRegion,
		StoragePublicURL:     strings.TrimRight(storagePublicURL, "/"),
		MediaBucket:          mediaBucket,
		GitHubOwner:          githubOwner,
		GitHubRepo:           githubRepo,
		ContributorTTL:       contributorTTL,
		ContributorAPIBase:   strings.TrimRight(contributorAPIBase, "/"),
		CacheDir:             cacheDir,
		Port:                 port,
		MetricsPort:          metricsPort,
		MetricsEnabled:       metricsEnabled,
		LogHealthChecks:      logHealthChecks,
		MaxUploadBytes:       int64(maxUploadMB) * 1024 * 1024,
		TranscodeDir:         filepath.Join(cacheDir, "transcode"),
		ContributorCachePath: filepath.Join(cacheDir, "contributors.json"),
	}

	// Setup transcode scratch directory (optional; video compression degrades
	// to pass-through rejection when unavailable)
	config.TranscodingEnabled = setupOptionalDir(config.TranscodeDir, "transcode")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Object storage: ENABLED (required)")
	logging.Info("    Transcoding:    %s", enabledString(config.TranscodingEnabled))
	logging.Info("    Metrics:        %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}

// LogTranscoderInit logs transcoder initialization and checks FFmpeg
func LogTranscoderInit(enabled bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("TRANSCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")

	if !enabled {
		logging.Warn("  Transcoding disabled (cache directory not writable)")
		logging.Warn("  Large video uploads will be rejected")
		return
	}

	if err := checkFFmpeg(); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Video transcoding may not work correctly")
	} else {
		logging.Info("  [OK] FFmpeg is available")
	}
}

// LogStorageInit logs object store client initialization
func LogStorageInit(endpoint, bucket string, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("OBJECT STORE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Endpoint: %s", endpoint)
	logging.Info("  Bucket:   %s", bucket)
	logging.Info("  [OK] Storage client ready in %v", duration)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   _____ __                                     __  ___         ___
  / ___// /_  ____ _      ______________ ______/  |/  /__  ____/ (_)___ _
  \__ \/ __ \/ __ \ | /| / / ___/ __  / ___/ _ \ /|_/ / _ \/ __  / / __ '/
 ___/ / / / / /_/ / |/ |/ / /__/ /_/ (__  )  __/ /  / /  __/ /_/ / / /_/ /
/____/_/ /_/\____/|__/|__/\___/\__,_/____/\___/_/  /_/\___/\__,_/_/\__,_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkFFmpeg() error {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
