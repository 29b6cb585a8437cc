package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/AlexZinkM/authenticity-key/internal/config"
	"github.com/AlexZinkM/authenticity-key/internal/handler"
	"github.com/AlexZinkM/authenticity-key/internal/logging"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SetupRouter sets up router with handlers
func SetupRouter(cfg *config.Config, engine handler.Engine, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	verificationHandler := handler.NewVerificationHandler(engine, cfg.PublicURL, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(requestLogger(logger.Named("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", verificationHandler.Health)

	// Verification endpoints
	addLimiter := NewRateLimiter(rate.Limit(cfg.AddRateLimit), burstFor(cfg.AddRateLimit))
	r.With(addLimiter.Limit).Post("/add", verificationHandler.AddKey)
	r.Get("/verify", verificationHandler.Verify)
	r.Get("/label", verificationHandler.Label)

	return r
}

// burstFor allows one second worth of requests at once, and at least one
func burstFor(limit float64) int {
	return int(math.Max(1, math.Ceil(limit)))
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With(zap.String("requestId", chimiddleware.GetReqID(r.Context())))
			r = r.WithContext(logging.NewContext(r.Context(), reqLogger))

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			// query strings are left out
			reqLogger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
