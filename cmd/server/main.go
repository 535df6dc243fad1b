package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/remindful/todo-api/internal/clock"
	"github.com/remindful/todo-api/internal/config"
	"github.com/remindful/todo-api/internal/handlers"
	"github.com/remindful/todo-api/internal/logger"
	"github.com/remindful/todo-api/internal/metrics"
	"github.com/remindful/todo-api/internal/middleware"
	"github.com/remindful/todo-api/internal/scheduler"
	"github.com/remindful/todo-api/internal/service"
	"github.com/remindful/todo-api/internal/store"
	"github.com/remindful/todo-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "remindful-todo-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Duration("sweep_interval", cfg.SweepInterval),
		zap.Bool("allow_sharee_writes", cfg.AllowShareeWrites),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Stores and services
	clk := clock.System()
	todoStore := store.NewTodoStore(clk, zapLogger)
	userStore := store.NewUserStore(clk)
	m := metrics.New()
	todoService := service.NewTodoService(todoStore, userStore, clk, zapLogger, m)

	// Rate limiter (in-memory unless REDIS_URL points at a Redis instance)
	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Handlers
	todoHandler := handlers.NewTodoHandler(todoService, zapLogger, cfg.AllowShareeWrites)
	userHandler := handlers.NewUserHandler(userStore)

	// Setup router
	r := mux.NewRouter()

	// Note: In gorilla/mux, middleware executes in registration order, so the
	// first registered middleware is the outermost wrapper.
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	corsHandler := middleware.CORS(cfg.FrontendURL)
	r.Use(corsHandler.Handler)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Recovery(zapLogger, handlers.RespondJSONError))
	r.Use(middleware.Logging(zapLogger))
	r.Use(middleware.Metrics(m))

	// Public routes
	r.HandleFunc("/healthz", handlers.HealthCheck).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	usersRouter := apiRouter.PathPrefix("/users").Subrouter()
	usersRouter.Use(rateLimitMW)
	userHandler.RegisterRoutes(usersRouter)

	todosRouter := apiRouter.PathPrefix("/todos").Subrouter()
	todosRouter.Use(middleware.UserContext(userStore, zapLogger))
	todosRouter.Use(rateLimitMW)
	todoHandler.RegisterRoutes(todosRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Background reminder sweep
	sched := scheduler.New(zapLogger)
	sched.Schedule("reminder-sweep", cfg.SweepInterval, func(ctx context.Context) error {
		_, err := todoService.ProcessReminders(ctx, clk.Now())
		return err
	})
	zapLogger.Info("reminder_sweep_scheduled",
		zap.Duration("interval", cfg.SweepInterval),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	sched.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
