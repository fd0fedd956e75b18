package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/mogaaruf1/somali-student-hub/internal/admin"
	"github.com/mogaaruf1/somali-student-hub/internal/auth"
	"github.com/mogaaruf1/somali-student-hub/internal/chat"
	"github.com/mogaaruf1/somali-student-hub/internal/config"
	"github.com/mogaaruf1/somali-student-hub/internal/enrollment"
	"github.com/mogaaruf1/somali-student-hub/internal/events"
	"github.com/mogaaruf1/somali-student-hub/internal/health"
	"github.com/mogaaruf1/somali-student-hub/internal/logger"
	"github.com/mogaaruf1/somali-student-hub/internal/metrics"
	"github.com/mogaaruf1/somali-student-hub/internal/middleware"
	"github.com/mogaaruf1/somali-student-hub/internal/notify"
	"github.com/mogaaruf1/somali-student-hub/internal/resource"
	"github.com/mogaaruf1/somali-student-hub/internal/store"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	mongo     *mongo.Client
	publisher events.Publisher
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	mongoClient, err := store.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatal("failed to connect to mongo:", err)
	}
	app.mongo = mongoClient
	db := mongoClient.Database(cfg.Mongo.Database)

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Notification sink: logging stub by default, real SMTP when configured
	var notifier notify.Notifier
	if cfg.SMTP.Enabled {
		notifier = notify.NewSMTPNotifier(cfg.SMTP, slogLogger)
		slogLogger.Info("SMTP notifier enabled", "host", cfg.SMTP.Host)
	} else {
		notifier = notify.NewLogNotifier(slogLogger)
	}

	// Event publisher (optional)
	publisher, err := events.New(cfg.Messaging, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event publisher", "error", err)
		publisher = nil
	} else if publisher != nil {
		slogLogger.Info("event publisher initialized", "driver", cfg.Messaging.Driver)
	}
	app.publisher = publisher

	// Enrollment core
	enrollRepo := enrollment.NewRepository(db)
	enrollService := enrollment.NewService(enrollRepo, notifier, publisher, slogLogger)
	enrollHandler := enrollment.NewHandler(enrollService, slogLogger, m)

	// Catalog (read-only)
	resourceRepo := resource.NewRepository(db)
	resourceHandler := resource.NewHandler(resourceRepo, slogLogger)

	// AI tutor proxy
	chatHandler := chat.NewHandler(chat.NewClient(cfg.OpenAI), slogLogger, m)

	// Notify endpoint (same sink the enrollment side effect uses)
	notifyHandler := notify.NewHandler(notifier, slogLogger, m)

	// Moderation, gated by JWT plus the admin allow-list
	authorizer := admin.NewAuthorizer(cfg.Auth.AdminEmails)
	adminHandler := admin.NewHandler(enrollService, slogLogger, m)

	app.router.Route("/api", func(r chi.Router) {
		resourceHandler.RegisterRoutes(r)
		enrollHandler.RegisterRoutes(r)
		chatHandler.RegisterRoutes(r)
		notifyHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Auth.JWTSecret, slogLogger))
			r.Use(admin.RequireAdmin(authorizer, slogLogger))
			adminHandler.RegisterRoutes(r)
		})
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close event publisher", "error", err)
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return store.Disconnect(ctx, a.mongo)
}
