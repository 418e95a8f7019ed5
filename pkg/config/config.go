package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	DART DARTConfig

	// Ratio pipeline
	Ratio RatioConfig

	// Financial statement collection
	Collector CollectorConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DARTConfig holds DART (전자공시) API configuration
type DARTConfig struct {
	APIKey     string
	BaseURL    string
	RatePerSec int // 초당 요청 수 제한
}

// RatioConfig holds ratio calculation settings
type RatioConfig struct {
	YearWindow int           // 분석 대상 최근 연도 수 (1~3)
	CacheTTL   time.Duration // redis 재무비율 캐시 TTL
}

// CollectorConfig holds DART crawl settings
type CollectorConfig struct {
	Workers    int
	Schedule   string // cron (with seconds)
	Timezone   string
	Companies  []string
	MinQuality float64 // weighted account coverage 0.0 - 1.0
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		DART: DARTConfig{
			APIKey:     getEnv("DART_API_KEY", ""),
			BaseURL:    getEnv("DART_BASE_URL", "https://opendart.fss.or.kr/api"),
			RatePerSec: getEnvAsInt("DART_RATE_PER_SEC", 5),
		},

		Ratio: RatioConfig{
			YearWindow: getEnvAsInt("RATIO_YEAR_WINDOW", 3),
			CacheTTL:   getEnvAsDuration("RATIO_CACHE_TTL", "24h"),
		},

		Collector: CollectorConfig{
			Workers:    getEnvAsInt("COLLECT_WORKERS", 4),
			Schedule:   getEnv("COLLECT_SCHEDULE", "0 50 11 * * *"),
			Timezone:   getEnv("COLLECT_TIMEZONE", "Asia/Seoul"),
			Companies:  getEnvAsList("COLLECT_COMPANIES"),
			MinQuality: getEnvAsFloat("COLLECT_MIN_QUALITY", 0.75),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Ratio.YearWindow < 1 || c.Ratio.YearWindow > 3 {
		return fmt.Errorf("RATIO_YEAR_WINDOW must be between 1 and 3, got %d", c.Ratio.YearWindow)
	}

	if c.Collector.Workers < 1 {
		return fmt.Errorf("COLLECT_WORKERS must be positive")
	}

	if c.Collector.MinQuality < 0 || c.Collector.MinQuality > 1 {
		return fmt.Errorf("COLLECT_MIN_QUALITY must be between 0 and 1")
	}

	return nil
}

// LoadFrom loads an explicit env file first, then reads configuration as Load does.
// An empty path behaves like Load.
func LoadFrom(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return Load()
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
