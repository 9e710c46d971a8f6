package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	ServerHost  string
	ServerPort  string
	Environment string

	Storage        string
	DatabaseURL    string
	MigrateOnStart bool

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool

	PasswordHasher  string
	BcryptCost      int
	PermissionsFile string

	ImageDir       string
	MaxUploadBytes int64

	RedisURL                string
	RateLimitEnabled        bool
	RateLimitBackend        string
	RateLimitSignInAttempts int
	RateLimitSignInWindow   time.Duration
	RateLimitBlockDuration  time.Duration
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
	TrustedProxies          []string

	LogLevel  string
	LogFormat string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	MetricsEnabled bool
}

var (
	ErrMissingDatabaseURL      = errors.New("DATABASE_URL or POSTGRES_* is required")
	ErrMissingJWTSecret        = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL         = errors.New("invalid token TTL format")
	ErrInvalidJWTAlgorithm     = errors.New("invalid JWT algorithm")
	ErrInvalidStorage          = errors.New("STORAGE must be postgres or memory")
	ErrInvalidPasswordHasher   = errors.New("PASSWORD_HASHER must be bcrypt or argon2id")
	ErrInvalidRateLimitBackend = errors.New("RATE_LIMIT_BACKEND must be redis or memory")
)

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost:     getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		ServerPort:     getEnvOrDefault("SERVER_PORT", "8080"),
		Environment:    getEnvOrDefault("ENV", "development"),
		Storage:        getEnvOrDefault("STORAGE", StoragePostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrateOnStart: getEnvOrDefaultBool("MIGRATE_ON_START", false),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALGORITHM", "HS256"),
		CookieSecure: getEnvOrDefaultBool("COOKIE_SECURE", false),

		PasswordHasher:  getEnvOrDefault("PASSWORD_HASHER", HasherBcrypt),
		BcryptCost:      getEnvOrDefaultInt("BCRYPT_COST", 10),
		PermissionsFile: os.Getenv("PERMISSIONS_FILE"),

		ImageDir:       getEnvOrDefault("IMAGE_DIR", "static/img"),
		MaxUploadBytes: int64(getEnvOrDefaultInt("MAX_UPLOAD_BYTES", 5<<20)),

		RedisURL:                getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:        getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitBackend:        getEnvOrDefault("RATE_LIMIT_BACKEND", "memory"),
		RateLimitSignInAttempts: getEnvOrDefaultInt("RATE_LIMIT_SIGN_IN_ATTEMPTS", 10),
		RateLimitRequestsPerSec: getEnvOrDefaultFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:          getEnvOrDefaultInt("RATE_LIMIT_BURST", 40),
		TrustedProxies:          parseCommaList(os.Getenv("TRUSTED_PROXIES")),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", false),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseCommaList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),

		MetricsEnabled: getEnvOrDefaultBool("METRICS_ENABLED", true),
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = postgresDSNFromParts()
		}
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	case StorageMemory:
	default:
		return nil, ErrInvalidStorage
	}

	if _, ok := supportedAlgorithms[cfg.JWTAlgorithm]; !ok {
		return nil, ErrInvalidJWTAlgorithm
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	if cfg.PasswordHasher != HasherBcrypt && cfg.PasswordHasher != HasherArgon2id {
		return nil, ErrInvalidPasswordHasher
	}
	if cfg.RateLimitBackend != "redis" && cfg.RateLimitBackend != "memory" {
		return nil, ErrInvalidRateLimitBackend
	}

	var err error
	if cfg.AccessTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_EXPIRES_IN", "900")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if cfg.RefreshTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_REFRESH_EXPIRES_IN", "2592000")); err != nil {
		return nil, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	if cfg.RateLimitSignInWindow, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_SIGN_IN_WINDOW", "900")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_SIGN_IN_WINDOW: %w", err)
	}
	if cfg.RateLimitBlockDuration, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BLOCK_DURATION: %w", err)
	}

	return cfg, nil
}

// LoadDatabaseURL reads only the database settings. Used by tools that do not
// need the rest of the configuration.
func LoadDatabaseURL() (string, error) {
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = postgresDSNFromParts()
	}
	if dsn == "" {
		return "", ErrMissingDatabaseURL
	}
	return dsn, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func postgresDSNFromParts() string {
	user := os.Getenv("POSTGRES_USER")
	db := os.Getenv("POSTGRES_DB")
	if user == "" || db == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, os.Getenv("POSTGRES_PASSWORD")),
		Host:     fmt.Sprintf("%s:%s", getEnvOrDefault("POSTGRES_HOST", "localhost"), getEnvOrDefault("POSTGRES_PORT", "5432")),
		Path:     "/" + db,
		RawQuery: "sslmode=" + getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// parseTokenTTL reads a positive number of seconds.
func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0, ErrInvalidTokenTTL
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseCommaList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
