package config

import (
	"fmt"

	pkgconfig "github.com/Yangluigie/Reto-Factus/pkg/config"
)

// Config holds all configuration for the invoice gateway.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL (user store)
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"gateway"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"gateway_secret"`
	PostgresDB   string `env:"GATEWAY_DB_NAME" envDefault:"gateway_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`

	// Redis (session store)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka (audit events)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Factus provider credentials and policy
	FactusBaseURL        string `env:"FACTUS_BASE_URL" envDefault:"https://api-sandbox.factus.com.co"`
	FactusGrantType      string `env:"FACTUS_GRANT_TYPE" envDefault:"password"`
	FactusClientID       string `env:"FACTUS_CLIENT_ID" envDefault:""`
	FactusClientSecret   string `env:"FACTUS_CLIENT_SECRET" envDefault:""`
	FactusUsername       string `env:"FACTUS_USERNAME" envDefault:""`
	FactusPassword       string `env:"FACTUS_PASSWORD" envDefault:""`
	FactusTokenTTLSecs   int    `env:"FACTUS_TOKEN_TTL_SECONDS" envDefault:"3600"`
	FactusHTTPTimeoutSec int    `env:"FACTUS_HTTP_TIMEOUT_SECONDS" envDefault:"30"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Login rate limiting (per client IP)
	LoginRateRPS   int `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"5"`
	LoginRateBurst int `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load gateway config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.LoginRateRPS < 1 || cfg.LoginRateBurst < 1 {
		return nil, fmt.Errorf("login rate limit values must be positive")
	}
	if cfg.FactusTokenTTLSecs <= 0 {
		return nil, fmt.Errorf("FACTUS_TOKEN_TTL_SECONDS must be positive, got %d", cfg.FactusTokenTTLSecs)
	}

	// In non-development environments, the Factus service credentials must be
	// explicitly configured; there is no usable default.
	if cfg.Environment != "development" {
		if cfg.FactusClientID == "" || cfg.FactusClientSecret == "" {
			return nil, fmt.Errorf("FACTUS_CLIENT_ID and FACTUS_CLIENT_SECRET must be set in %q mode", cfg.Environment)
		}
		if cfg.FactusUsername == "" || cfg.FactusPassword == "" {
			return nil, fmt.Errorf("FACTUS_USERNAME and FACTUS_PASSWORD must be set in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}
