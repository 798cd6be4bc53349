package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DefaultOrgID int64
	APIToken     string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Oracle    OracleConfig
	Email     EmailConfig
	Files     FilesConfig
	Seed      SeedConfig
	RateLimit RateLimitConfig
}

// OracleConfig configures the generative text oracle client.
type OracleConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	ChatModel   string
	Temperature float64
	Timeout     time.Duration
}

// EmailConfig configures the SMTP reminder provider.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// FilesConfig configures the attachment store.
type FilesConfig struct {
	Dir       string
	PublicURL string
	MaxBytes  int64
}

// SeedConfig controls startup bootstrap data.
type SeedConfig struct {
	EnsureDefaultOrg bool
	DemoData         bool
}

// RateLimitConfig bounds calls to the oracle-backed endpoints.
type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Max     int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "recouvro"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DefaultOrgID: getenvInt64("DEFAULT_ORG", 0),
		APIToken:     strings.TrimSpace(getenv("API_TOKEN", "")),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "recouvro"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),

		Oracle: OracleConfig{
			APIKey:      strings.TrimSpace(getenv("ORACLE_API_KEY", "")),
			BaseURL:     getenv("ORACLE_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:       getenv("ORACLE_MODEL", "gemini-2.5-flash"),
			ChatModel:   getenv("ORACLE_CHAT_MODEL", "gemini-3-pro-preview"),
			Temperature: getenvFloat("ORACLE_TEMPERATURE", 0),
			Timeout:     getenvDuration("ORACLE_TIMEOUT", 45*time.Second),
		},
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@recouvro.local"),
		},
		Files: FilesConfig{
			Dir:       getenv("FILES_DIR", "./data/files"),
			PublicURL: getenv("FILES_PUBLIC_URL", "/files"),
			MaxBytes:  getenvInt64("FILES_MAX_BYTES", 10<<20),
		},
		Seed: SeedConfig{
			EnsureDefaultOrg: getenvBool("SEED_DEFAULT_ORG", true),
			DemoData:         getenvBool("SEED_DEMO_DATA", false),
		},
		RateLimit: RateLimitConfig{
			Enabled: getenvBool("RATE_LIMIT_ENABLED", true),
			Window:  getenvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Max:     getenvInt("RATE_LIMIT_MAX", 30),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
