package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/amanuelmandefro3/amr-blog/pkg/config"
)

// Config holds all configuration for the blog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"blog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"blog_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"blog_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (recommendation cache)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	RecommendationCacheTTL time.Duration `env:"RECOMMENDATION_CACHE_TTL" envDefault:"5m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tokens. The two signing secrets have no defaults on purpose: the
	// process refuses to start without them.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,notEmpty"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,notEmpty"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	VerifyTokenExpiry  time.Duration `env:"VERIFY_TOKEN_EXPIRY" envDefault:"24h"`
	ResetTokenExpiry   time.Duration `env:"RESET_TOKEN_EXPIRY" envDefault:"15m"`

	// SMTP
	SMTPHost string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER" envDefault:""`
	SMTPPass string `env:"SMTP_PASSWORD" envDefault:""`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@amr-blog.dev"`

	// Base URL used to build verification and reset links in outgoing mail.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Per-IP rate limit on auth endpoints.
	AuthRateLimitRPS   int `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Weak secrets are refused outside development.
	if cfg.Environment != "development" {
		if len(cfg.AccessTokenSecret) < 32 {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be at least 32 characters long, got %d", len(cfg.AccessTokenSecret))
		}
		if len(cfg.RefreshTokenSecret) < 32 {
			return nil, fmt.Errorf("REFRESH_TOKEN_SECRET must be at least 32 characters long, got %d", len(cfg.RefreshTokenSecret))
		}
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return cfg, nil
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
// Only plain-HTTP local development is exempt.
func (c *Config) SecureCookies() bool {
	return c.Environment != "development"
}
