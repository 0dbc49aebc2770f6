package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings read from the environment
type Config struct {
	Port      string
	Storage   string // "mongo" or "memory"
	MongoURI  string
	MongoDB   string
	RedisAddr string

	JWTSecret    string
	HostUsername string
	HostPassword string
	HostRole     string

	LockTTL          time.Duration // how long an analysis run may hold its survey lock
	SummaryCacheTTL  time.Duration
	SummaryCacheSize int // entries in the process-local LRU
	SummaryLocalTTL  time.Duration

	Archive  ArchiveConfig
	Analysis *AnalysisConfig
	AI       *AIConfig
}

// ArchiveConfig configures the S3/MinIO report archive
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env (if present), the environment and the analysis tuning file
func Load() (*Config, error) {
	_ = godotenv.Load()

	analysis, err := LoadAnalysis(getEnv("ANALYSIS_CONFIG", "analysis.yaml"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		Storage:   strings.ToLower(getEnv("STORAGE", "mongo")),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "surveylens"),
		RedisAddr: strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),

		JWTSecret:    getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		HostUsername: getEnv("HOST_USERNAME", "admin"),
		HostPassword: getEnv("HOST_PASSWORD", "password123"),
		HostRole:     strings.ToUpper(getEnv("HOST_ROLE", "ADMIN")),

		LockTTL:          getDuration("ANALYSIS_LOCK_TTL", 10*time.Minute),
		SummaryCacheTTL:  getDuration("SUMMARY_CACHE_TTL", 24*time.Hour),
		SummaryCacheSize: getInt("SUMMARY_CACHE_SIZE", 1024),
		SummaryLocalTTL:  getDuration("SUMMARY_LOCAL_TTL", 5*time.Second),

		Archive:  loadArchiveConfig(),
		Analysis: analysis,
		AI:       DefaultAIConfig(),
	}, nil
}

func loadArchiveConfig() ArchiveConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    getEnv("ARCHIVE_S3_REGION", "us-east-1"),
		AccessKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    getEnv("ARCHIVE_S3_BUCKET", "surveylens-reports"),
		UseSSL:    getBool("ARCHIVE_S3_USE_SSL", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
