package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Extraction   ExtractionConfig
	Messaging    MessagingConfig
	Uploads      UploadsConfig
	Certificates CertificatesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// ExtractionConfig points at the external document-understanding service.
type ExtractionConfig struct {
	APIURL          string
	APIKey          string
	MaxAttempts     int
	BaseDelayMillis int
	TimeoutSeconds  int
	CacheTTLMinutes int
}

// MessagingConfig configures the WhatsApp gateway used for completion
// notifications.
type MessagingConfig struct {
	GatewayURL     string
	AuthToken      string
	CountryPrefix  string
	TimeoutSeconds int
}

// UploadsConfig controls where uploaded files land on disk.
type UploadsConfig struct {
	BaseDir      string
	MaxSizeBytes int64
}

// CertificatesConfig controls generated certificate artifacts.
type CertificatesConfig struct {
	OutputDir string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "event-registration-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Extraction: ExtractionConfig{
			APIURL:          getEnv("EXTRACTION_API_URL", ""),
			APIKey:          os.Getenv("EXTRACTION_API_KEY"),
			MaxAttempts:     getEnvAsInt("EXTRACTION_MAX_ATTEMPTS", 3),
			BaseDelayMillis: getEnvAsInt("EXTRACTION_BASE_DELAY_MILLIS", 1000),
			TimeoutSeconds:  getEnvAsInt("EXTRACTION_TIMEOUT_SECONDS", 30),
			CacheTTLMinutes: getEnvAsInt("EXTRACTION_CACHE_TTL_MINUTES", 60),
		},
		Messaging: MessagingConfig{
			GatewayURL:     getEnv("WHATSAPP_GATEWAY_URL", ""),
			AuthToken:      os.Getenv("WHATSAPP_GATEWAY_TOKEN"),
			CountryPrefix:  getEnv("WHATSAPP_COUNTRY_PREFIX", "91"),
			TimeoutSeconds: getEnvAsInt("WHATSAPP_TIMEOUT_SECONDS", 15),
		},
		Uploads: UploadsConfig{
			BaseDir:      getEnv("UPLOADS_DIR", "uploads"),
			MaxSizeBytes: int64(getEnvAsInt("UPLOADS_MAX_SIZE_BYTES", 5*1024*1024)),
		},
		Certificates: CertificatesConfig{
			OutputDir: getEnv("CERTIFICATES_DIR", "certificates"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BaseDelay returns the initial backoff delay between extraction attempts.
func (e ExtractionConfig) BaseDelay() time.Duration {
	if e.BaseDelayMillis <= 0 {
		return time.Second
	}
	return time.Duration(e.BaseDelayMillis) * time.Millisecond
}

// CacheTTL returns how long extraction results stay cached.
func (e ExtractionConfig) CacheTTL() time.Duration {
	if e.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(e.CacheTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
