package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/webinara/webinara-backend/internal/health"
	"github.com/webinara/webinara-backend/internal/http/handler"
	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/repository"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	HostHandler    *handler.HostHandler
	WebinarHandler *handler.WebinarHandler
	BookingHandler *handler.BookingHandler
	UserLogHandler *handler.UserLogHandler
	CSRFHandler    *handler.CSRFHandler

	Sessions          *service.SessionService
	Tokens            *security.JWTManager
	UserLogs          repository.UserLogRepository
	SessionCookieName string
	Logger            *slog.Logger

	Limiter          middleware.Limiter
	LoginRateLimit   int
	OTPRateLimit     int
	APIRateLimit     int
	RateLimitFailure middleware.FailureMode

	CORSOrigins    []string
	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.StructuredRequestLogger(dep.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	limiter := dep.Limiter
	if limiter == nil {
		limiter = middleware.NewLocalLimiter()
	}
	r.Use(middleware.RateLimit(limiter, "api", dep.APIRateLimit, time.Minute, middleware.FailOpen, dep.Logger))

	loginLimiter := middleware.RateLimit(limiter, "login", dep.LoginRateLimit, time.Minute, dep.RateLimitFailure, dep.Logger)
	otpLimiter := middleware.RateLimit(limiter, "otp", dep.OTPRateLimit, time.Minute, dep.RateLimitFailure, dep.Logger)

	requireAuth := middleware.RequireAuth(dep.Sessions, dep.Tokens, dep.SessionCookieName)
	protect := middleware.SessionProtection(dep.Sessions, dep.SessionCookieName, dep.Logger)
	csrf := middleware.CSRFGuard()
	activity := middleware.UserActivityLogger(dep.UserLogs, dep.Logger)
	admin := middleware.RequireAdmin()

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(loginLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(requireAuth, protect, admin, csrf).Post("/register-admin", dep.AuthHandler.RegisterAdmin)
			r.With(requireAuth).Post("/logout", dep.AuthHandler.Logout)
		})

		r.Route("/user", func(r chi.Router) {
			// The OTP reset flow runs unauthenticated: the caller has lost
			// their password.
			r.With(otpLimiter).Post("/send-otp", dep.UserHandler.SendOTP)
			r.With(otpLimiter).Post("/verify-otp", dep.UserHandler.VerifyOTP)
			r.With(otpLimiter).Put("/reset-password", dep.UserHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, protect, activity)
				r.Get("/me", dep.UserHandler.Me)
				r.With(csrf).Put("/", dep.UserHandler.Update)
				r.With(csrf).Delete("/", dep.UserHandler.Delete)
				r.With(admin).Get("/", dep.UserHandler.List)
			})
		})

		r.With(requireAuth, protect).Get("/csrf-token", dep.CSRFHandler.Token)

		r.Route("/host", func(r chi.Router) {
			r.Get("/", dep.HostHandler.List)
			r.Get("/{id}", dep.HostHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, protect, activity, admin, csrf)
				r.Post("/", dep.HostHandler.Create)
				r.Put("/{id}", dep.HostHandler.Update)
				r.Delete("/{id}", dep.HostHandler.Delete)
			})
		})

		r.Route("/webinar", func(r chi.Router) {
			r.Get("/", dep.WebinarHandler.List)
			r.Get("/home-webinars", dep.WebinarHandler.Home)
			r.Get("/search", dep.WebinarHandler.Search)
			r.Get("/filter", dep.WebinarHandler.Filter)
			r.Get("/webinar-category", dep.WebinarHandler.ByCategory)
			r.Get("/{id}", dep.WebinarHandler.Get)
			r.Get("/check-full-booking/{id}", dep.WebinarHandler.CheckFull)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, protect, activity, admin, csrf)
				r.Post("/", dep.WebinarHandler.Create)
				r.Put("/{id}", dep.WebinarHandler.Update)
				r.Delete("/{id}", dep.WebinarHandler.Delete)
			})
		})

		r.Route("/booking", func(r chi.Router) {
			r.Use(requireAuth, protect, activity)
			r.With(csrf).Post("/", dep.BookingHandler.Book)
			r.Get("/upcoming", dep.BookingHandler.Upcoming)
			r.Get("/past", dep.BookingHandler.Past)
			r.Get("/check-booking/{webinarId}", dep.BookingHandler.Check)
			r.With(admin).Get("/", dep.BookingHandler.List)
		})

		r.With(requireAuth, protect, admin).Get("/user-log", dep.UserLogHandler.List)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
