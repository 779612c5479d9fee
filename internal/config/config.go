package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the Webinara backend. Values are
// read from WEBINARA_* environment variables with sane defaults for local
// development; secrets have no defaults and must be provided.
type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DatabaseDSN   string `env:"DATABASE_DSN" envDefault:"host=localhost user=webinara password=webinara dbname=webinara port=5432 sslmode=disable"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionCookieName  string        `env:"SESSION_COOKIE_NAME" envDefault:"webinara_session"`

	LockoutMaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"3"`
	LockoutDuration    time.Duration `env:"LOCKOUT_DURATION" envDefault:"5m"`
	OTPTTL             time.Duration `env:"OTP_TTL" envDefault:"10m"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"webinara"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"webinara-web"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"1h"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"Webinara Support <webinara2025@gmail.com>"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	LoginRateLimitPerMin int           `env:"LOGIN_RATE_LIMIT_PER_MIN" envDefault:"5"`
	OTPRateLimitPerMin   int           `env:"OTP_RATE_LIMIT_PER_MIN" envDefault:"3"`
	APIRateLimitPerMin   int           `env:"API_RATE_LIMIT_PER_MIN" envDefault:"300"`
	RetentionInterval    time.Duration `env:"RETENTION_INTERVAL" envDefault:"24h"`

	OTELServiceName           string        `env:"OTEL_SERVICE_NAME" envDefault:"webinara-backend"`
	OTELEnvironment           string        `env:"OTEL_ENVIRONMENT" envDefault:"dev"`
	OTELExporterOTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELExporterOTLPInsecure  bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELMetricsEnabled        bool          `env:"OTEL_METRICS_ENABLED" envDefault:"false"`
	OTELTracesEnabled         bool          `env:"OTEL_TRACES_ENABLED" envDefault:"false"`
	OTELLogsEnabled           bool          `env:"OTEL_LOGS_ENABLED" envDefault:"false"`
	OTELMetricsExportInterval time.Duration `env:"OTEL_METRICS_EXPORT_INTERVAL" envDefault:"30s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "WEBINARA_"}); err != nil {
		err = fmt.Errorf("parse config: %w", err)
		recordConfigLoadEvent(context.Background(), cfg.OTELEnvironment, "error", classifyConfigLoadError(err))
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		err = fmt.Errorf("validate config: %w", err)
		recordConfigLoadEvent(context.Background(), cfg.OTELEnvironment, "error", classifyConfigLoadError(err))
		return nil, err
	}
	recordConfigLoadEvent(context.Background(), cfg.OTELEnvironment, "success", "none")
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.LockoutMaxAttempts < 1 {
		return fmt.Errorf("LOCKOUT_MAX_ATTEMPTS must be at least 1")
	}
	if c.LockoutDuration <= 0 {
		return fmt.Errorf("LOCKOUT_DURATION must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	return nil
}
