// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scholarly-ai/paper-agent/internal/config"
	"github.com/scholarly-ai/paper-agent/internal/handler"
	"github.com/scholarly-ai/paper-agent/internal/llm"
	"github.com/scholarly-ai/paper-agent/internal/middleware"
	natsclient "github.com/scholarly-ai/paper-agent/internal/nats"
	"github.com/scholarly-ai/paper-agent/internal/service"
	"github.com/scholarly-ai/paper-agent/internal/store"
	"github.com/scholarly-ai/paper-agent/pkg/logger"
	"github.com/scholarly-ai/paper-agent/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "paper-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", logger.Err(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS when configured; the event stream is optional.
	var natsClient *natsclient.Client
	var events service.EventSink
	if cfg.NATSURL != "" {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", logger.Err(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		publisher := natsclient.NewPublisher(natsClient)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", logger.Err(err))
			os.Exit(1)
		}
		events = publisher
	}

	// Register AI services. The first registered service is the default.
	manager := llm.NewManager(log)
	if cfg.AnthropicAPIKey != "" {
		client, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			log.Warn("failed to create Anthropic client", logger.Err(err))
		} else {
			manager.Register(client)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client", logger.Err(err))
		} else {
			manager.Register(client)
		}
	}
	for _, api := range cfg.CustomAPIs {
		client, err := llm.NewCompatibleClient(api.Name, api.APIKey, api.BaseURL, api.Model)
		if err != nil {
			log.Warn("failed to create custom client",
				logger.String("service", api.Name), logger.Err(err))
			continue
		}
		manager.Register(client)
	}
	if len(manager.Names()) == 0 {
		log.Warn("no AI services configured, generation will fail")
	}

	// Initialize storage
	fileStore, err := store.NewFileStore(cfg.DataDir, log)
	if err != nil {
		log.Error("failed to initialize session store", logger.Err(err))
		os.Exit(1)
	}

	// Initialize services
	sessionSvc := service.NewSessionService(fileStore, events, log)
	generator := service.NewGenerator(sessionSvc, manager, cfg.SectionTimeout, cfg.MaxTokens, log)
	controller := service.NewStageController(sessionSvc, generator, manager, cfg.MinRounds, cfg.MaxRounds, log)
	exporter := service.NewExporter(sessionSvc, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient, manager)
	sessionHandler := handler.NewSessionHandler(sessionSvc, log)
	messageHandler := handler.NewMessageHandler(controller, log)
	generateHandler := handler.NewGenerateHandler(generator, log)
	exportHandler := handler.NewExportHandler(exporter, log)
	servicesHandler := handler.NewServicesHandler(manager)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/services", servicesHandler.List)

		r.Route("/paper", func(r chi.Router) {
			r.Post("/start", sessionHandler.Start)
			r.Get("/sessions", sessionHandler.List)
			r.Route("/session/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
			})

			r.Post("/message", messageHandler.Send)
			r.Post("/generate", generateHandler.Generate)
			r.Post("/regenerate", generateHandler.Regenerate)
			r.Get("/export/{id}", exportHandler.Export)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", logger.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", logger.Err(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Err(err))
	}

	log.Info("server stopped")
}
