package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/webinara/webinara-backend/internal/config"
	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/health"
	"github.com/webinara/webinara-backend/internal/http/handler"
	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/router"
	"github.com/webinara/webinara-backend/internal/mail"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/repository"
	"github.com/webinara/webinara-backend/internal/retention"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

// Build wires the full dependency graph from configuration. Construction is
// explicit: each layer takes exactly what it needs.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, runtime *observability.Runtime) (*App, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	accounts := repository.NewAccountRepository(db)
	hosts := repository.NewHostRepository(db)
	webinars := repository.NewWebinarRepository(db)
	bookings := repository.NewBookingRepository(db)
	userLogs := repository.NewUserLogRepository(db)

	mailer := NewMailer(cfg, logger)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	tokens := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTTTL)
	guard := service.NewPasswordGuard(hasher)
	lockout := service.NewLockoutPolicy(cfg.LockoutMaxAttempts, cfg.LockoutDuration)

	sessionStore := service.NewRedisSessionStore(redisClient, "session")
	sessions := service.NewSessionService(sessionStore, cfg.SessionTTL, cfg.SessionIdleTimeout)

	authService := service.NewAuthService(accounts, userLogs, sessions, lockout, hasher, tokens, mailer, logger)
	otpService := service.NewOTPService(accounts, guard, mailer, logger, cfg.OTPTTL)
	accountService := service.NewAccountService(accounts, guard)
	webinarService := service.NewWebinarService(webinars, hosts)
	bookingService := service.NewBookingService(bookings, webinars, accounts, mailer, logger)

	readiness := health.NewProbeRunner(2*time.Second,
		health.NewDBChecker(db),
		health.NewRedisChecker(redisClient),
	)

	mux := router.NewRouter(router.Dependencies{
		AuthHandler:    handler.NewAuthHandler(authService, sessions, cfg.SessionCookieName, cfg.SessionTTL, cfg.JWTTTL),
		UserHandler:    handler.NewUserHandler(accountService, otpService),
		HostHandler:    handler.NewHostHandler(webinarService),
		WebinarHandler: handler.NewWebinarHandler(webinarService),
		BookingHandler: handler.NewBookingHandler(bookingService),
		UserLogHandler: handler.NewUserLogHandler(userLogs),
		CSRFHandler:    handler.NewCSRFHandler(sessions),

		Sessions:          sessions,
		Tokens:            tokens,
		UserLogs:          userLogs,
		SessionCookieName: cfg.SessionCookieName,
		Logger:            logger,

		Limiter:          middleware.NewRedisLimiter(redisClient, "ratelimit"),
		LoginRateLimit:   cfg.LoginRateLimitPerMin,
		OTPRateLimit:     cfg.OTPRateLimitPerMin,
		APIRateLimit:     cfg.APIRateLimitPerMin,
		RateLimitFailure: middleware.FailClosed,

		CORSOrigins:    cfg.CORSOrigins,
		Readiness:      readiness,
		EnableOTelHTTP: cfg.OTELTracesEnabled,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	sweeper := retention.NewSweeper(webinars, hosts, cfg.RetentionInterval, logger)

	return New(cfg, logger, server, runtime, sweeper), nil
}

// OpenDatabase connects and migrates the schema.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(
		&domain.Account{},
		&domain.Host{},
		&domain.Webinar{},
		&domain.Booking{},
		&domain.UserLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// NewMailer picks SMTP when configured, otherwise the log-only mailer so
// development runs do not need a relay.
func NewMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("smtp not configured, mail goes to the log")
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
}
