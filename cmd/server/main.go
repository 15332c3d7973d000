package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/cobranza/internal/handler"
	"github.com/yourorg/cobranza/internal/infrastructure/logger"
	"github.com/yourorg/cobranza/internal/infrastructure/redis"
	"github.com/yourorg/cobranza/internal/observability/metrics"
	"github.com/yourorg/cobranza/internal/observability/tracing"
	"github.com/yourorg/cobranza/internal/ratelimit"
	"github.com/yourorg/cobranza/internal/service"
	"github.com/yourorg/cobranza/internal/storage"
	"github.com/yourorg/cobranza/internal/storage/cached"
	"github.com/yourorg/cobranza/internal/storage/postgres"
	"github.com/yourorg/cobranza/internal/storage/sqlite"
	"github.com/yourorg/cobranza/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	log.Info("starting cobranza server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "cobranza", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Open the record store
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// 5. Wrap the store with the entity cache (Redis if configured,
	// in-process otherwise)
	var cacheBackend cached.Backend
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheBackend = cached.NewRedisBackend(redisClient, log)
		log.Info("entity cache backend: redis")
	} else {
		cacheBackend = cached.NewMemoryBackend()
		log.Info("entity cache backend: memory")
	}
	cachedStore := cached.New(store, cacheBackend, cfg.CacheTTL, log)

	// 6. Initialize services
	debtService := service.NewDebtService(cachedStore, log)
	queryService := service.NewQueryService(cachedStore, log)

	// 7. Initialize handlers
	clientsHandler := handler.NewClientsHandler(cachedStore, log)
	salespeopleHandler := handler.NewSalespeopleHandler(cachedStore, log)
	debtsHandler := handler.NewDebtsHandler(debtService, queryService, log)
	healthHandler := handler.NewHealthHandler(cachedStore)

	// 8. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /clientes", clientsHandler.Create)
	mux.HandleFunc("GET /clientes", clientsHandler.List)
	mux.HandleFunc("POST /vendedores", salespeopleHandler.Create)
	mux.HandleFunc("GET /vendedores", salespeopleHandler.List)
	mux.HandleFunc("POST /deudas", debtsHandler.Create)
	mux.HandleFunc("GET /deudas", debtsHandler.List)
	mux.HandleFunc("GET /deudas/pendientes", debtsHandler.ListPending)
	mux.HandleFunc("GET /deudas/pagadas", debtsHandler.ListPaid)
	mux.HandleFunc("PUT /deudas/pagar/{id}", debtsHandler.Pay)
	mux.HandleFunc("GET /deudas/pagadas/dia/{fecha}", debtsHandler.ListPaidOnDay)
	mux.HandleFunc("GET /healthz", healthHandler.Live)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Everything else serves the static page
	staticDir, err := filepath.Abs(cfg.StaticDir)
	if err != nil {
		log.Error("failed to resolve static path", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filePath)
	})

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// 9. Chain middleware: request ID -> rate limit -> metrics -> tracing -> CORS
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	rootHandler := withRequestID(
		ratelimit.Middleware(rateLimiter, log)(
			metrics.HTTPMetricsMiddleware(
				otelhttp.NewHandler(handlerWithCORS, "cobranza"),
			),
		),
		log,
	)

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	rateLimiter.Stop()
	log.Info("server stopped")
}

// openStore picks the storage backend from the DATABASE_URL scheme:
// postgres:// for PostgreSQL, anything else is treated as a SQLite
// file path (with an optional sqlite:// prefix).
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	url := cfg.DatabaseURL
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		log.Info("using postgres store")
		return postgres.New(ctx, url, log)
	default:
		path := strings.TrimPrefix(url, "sqlite://")
		log.Info("using sqlite store", slog.String("path", path))
		return sqlite.New(path)
	}
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
