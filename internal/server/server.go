package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kettleby/habitforge/internal/database"
	"github.com/kettleby/habitforge/internal/economy"
	"github.com/kettleby/habitforge/internal/effect"
	"github.com/kettleby/habitforge/internal/handler"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/metrics"
	"github.com/kettleby/habitforge/internal/quest"
	"github.com/kettleby/habitforge/internal/streak"
)

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	economyService economy.Service
	ledgerService  ledger.Service
	effectEngine   effect.Engine
	streakService  streak.Service
	questService   quest.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, economyService economy.Service, ledgerService ledger.Service, effectEngine effect.Engine, streakService streak.Service, questService quest.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/shop", func(r chi.Router) {
			r.Post("/purchase", handler.HandlePurchase(economyService))
			r.Get("/items", handler.HandleGetShopItems(economyService))
		})

		r.Post("/item/use", handler.HandleUseItem(economyService))
		r.Get("/inventory", handler.HandleGetInventory(economyService))

		r.Route("/score", func(r chi.Router) {
			r.Get("/balance", handler.HandleGetBalance(ledgerService))
			r.Get("/transactions", handler.HandleGetTransactions(ledgerService))
		})

		r.Get("/effects", handler.HandleGetEffects(effectEngine))

		r.Get("/streak", handler.HandleGetStreak(streakService)) // Handle /streak exactly
		r.Route("/streak", func(r chi.Router) {
			r.Get("/", handler.HandleGetStreak(streakService)) // Handle /streak/ if needed
			r.Post("/complete", handler.HandleStreakComplete(streakService))
		})

		r.Route("/quest", func(r chi.Router) {
			r.Post("/advance", handler.HandleAdvanceQuest(questService))
			r.Post("/accept", handler.HandleAcceptQuest(questService))
			r.Get("/progress", handler.HandleGetQuestProgress(questService))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:         dbPool,
		economyService: economyService,
		ledgerService:  ledgerService,
		effectEngine:   effectEngine,
		streakService:  streakService,
		questService:   questService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
