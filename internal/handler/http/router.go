package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Yangluigie/Reto-Factus/pkg/health"
	"github.com/Yangluigie/Reto-Factus/pkg/middleware"

	"github.com/Yangluigie/Reto-Factus/internal/service"
)

// Config holds router-level settings.
type Config struct {
	CORS CORSConfig

	// LoginRateRPS and LoginRateBurst bound login attempts per client IP to
	// slow down credential stuffing.
	LoginRateRPS   int
	LoginRateBurst int
}

// NewRouter creates a chi router with all gateway routes registered.
//
// The four business routes keep their historical trailing-slash paths so
// existing clients keep working unchanged.
func NewRouter(
	authService *service.AuthService,
	invoiceService *service.InvoiceService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("gateway"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(authService, logger)
	invoiceHandler := NewInvoiceHandler(invoiceService, logger)

	// Session validator that bridges to the auth service.
	sessionValidator := func(ctx context.Context, token string) (*middleware.Session, error) {
		session, err := authService.ValidateSession(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Session{
			UserID: session.UserID,
			Token:  session.Token,
		}, nil
	}

	// Public endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestLogger(logger))

		r.With(middleware.RateLimit(cfg.LoginRateRPS, cfg.LoginRateBurst, logger), ContentTypeJSON).
			Post("/login/", authHandler.Login)
		r.Get("/authenticate/", invoiceHandler.Authenticate)
	})

	// Session-protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionValidator))
		r.Use(middleware.RequestLogger(logger))

		r.Post("/logout/", authHandler.Logout)
		r.With(ContentTypeJSON).Post("/create-invoice/", invoiceHandler.CreateInvoice)
	})

	return r
}
