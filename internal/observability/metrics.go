package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/webinara/webinara-backend/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	authLoginCounter        metric.Int64Counter
	otpCounter              metric.Int64Counter
	sessionViolationCounter metric.Int64Counter
	csrfCounter             metric.Int64Counter
	bookingCounter          metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics

	repoMetricsOnce sync.Once
	repoCounter     metric.Int64Counter

	rateLimitOnce    sync.Once
	rateLimitCounter metric.Int64Counter
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("webinara-backend")
	loginCounter, err := meter.Int64Counter("auth.login.attempts")
	if err != nil {
		return nil, err
	}
	otpCounter, err := meter.Int64Counter("auth.otp.events")
	if err != nil {
		return nil, err
	}
	violationCounter, err := meter.Int64Counter("session.integrity.violations")
	if err != nil {
		return nil, err
	}
	csrfCounter, err := meter.Int64Counter("csrf.validations")
	if err != nil {
		return nil, err
	}
	bookingCounter, err := meter.Int64Counter("booking.events")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		authLoginCounter:        loginCounter,
		otpCounter:              otpCounter,
		sessionViolationCounter: violationCounter,
		csrfCounter:             csrfCounter,
		bookingCounter:          bookingCounter,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func RecordAuthLogin(role, status string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("role", role),
			attribute.String("status", status),
		),
	)
}

func RecordOTPEvent(action, status string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.otpCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status", status),
		),
	)
}

func RecordSessionViolation(reason string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.sessionViolationCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func RecordCSRFValidation(outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.csrfCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordBookingEvent(status string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.bookingCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordRateLimitDecision counts limiter outcomes by scope. Registered
// lazily, same as the repository counter.
func RecordRateLimitDecision(ctx context.Context, scope, decision, mode string) {
	rateLimitOnce.Do(func() {
		counter, err := otel.Meter("webinara-backend").Int64Counter("ratelimit.decisions")
		if err == nil {
			rateLimitCounter = counter
		}
	})
	if rateLimitCounter == nil {
		return
	}
	rateLimitCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("decision", decision),
		attribute.String("mode", mode),
	))
}

// RecordRepositoryOperation counts persistence calls by entity, operation and
// outcome. It registers its counter lazily so repositories can record without
// caring whether the metrics runtime is up.
func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	repoMetricsOnce.Do(func() {
		counter, err := otel.Meter("webinara-backend").Int64Counter("repository.operations")
		if err == nil {
			repoCounter = counter
		}
	})
	if repoCounter == nil {
		return
	}
	repoCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
