package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generation backends.
const (
	BackendREST      = "rest"
	BackendSDK       = "sdk"
	BackendSynthetic = "synthetic"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration

	GenerationBackend string
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiImageModel  string
	GeminiTextModel   string
	ProviderTimeout   time.Duration

	PoseCatalogPath  string
	AnalysisCacheTTL time.Duration
	ReferenceMaxEdge int
	PromptSeed       uint64
	PromptSeeded     bool

	RedisURL        string
	CancelKeyPrefix string

	StoragePath  string
	OutputFormat string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		GenerationBackend: strings.ToLower(getEnv("GENERATION_BACKEND", BackendREST)),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ProviderTimeout:   time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 180)),

		PoseCatalogPath:  os.Getenv("POSE_CATALOG_PATH"),
		AnalysisCacheTTL: time.Second * time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_SECONDS", 3600)),
		ReferenceMaxEdge: getEnvInt("REFERENCE_MAX_EDGE", 1536),

		RedisURL:        os.Getenv("REDIS_URL"),
		CancelKeyPrefix: getEnv("CANCEL_KEY_PREFIX", "datasetgen:cancel:"),

		StoragePath:  getEnv("STORAGE_PATH", "./output"),
		OutputFormat: strings.ToLower(getEnv("OUTPUT_FORMAT", "png")),
	}

	if v, ok := os.LookupEnv("PROMPT_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PROMPT_SEED must be an unsigned integer: %w", err)
		}
		cfg.PromptSeed = seed
		cfg.PromptSeeded = true
	}

	switch cfg.GenerationBackend {
	case BackendREST, BackendSDK, BackendSynthetic:
	default:
		return nil, fmt.Errorf("GENERATION_BACKEND must be one of rest, sdk, synthetic; got %q", cfg.GenerationBackend)
	}

	switch cfg.OutputFormat {
	case "png", "webp":
	default:
		return nil, fmt.Errorf("OUTPUT_FORMAT must be png or webp; got %q", cfg.OutputFormat)
	}

	if cfg.ReferenceMaxEdge < 0 {
		return nil, fmt.Errorf("REFERENCE_MAX_EDGE must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
