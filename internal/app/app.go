package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"enrollment-service/internal/config"
	"enrollment-service/internal/course"
	"enrollment-service/internal/db"
	"enrollment-service/internal/enrollment"
	"enrollment-service/internal/events"
	"enrollment-service/internal/health"
	"enrollment-service/internal/logger"
	"enrollment-service/internal/metrics"
	"enrollment-service/internal/middleware"
	"enrollment-service/internal/student"
	"enrollment-service/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	db            *bun.DB
	producer      events.Producer
	meterProvider *sdkmetric.MeterProvider
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler stack
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

	ctx := context.Background()

	meterProvider, err := telemetry.InitMeterProvider(ctx, ServiceName, Version, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize telemetry, metrics will be no-op", "error", err)
	} else {
		app.meterProvider = meterProvider
	}

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to create metric instruments", "error", err)
		m = metrics.NewMock()
	}

	database := db.New(cfg.Database)
	app.db = database

	if err := db.RunMigrations(ctx, database,
		(*student.Student)(nil),
		(*course.Course)(nil),
		(*enrollment.Enrollment)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Domain-event producer (optional: the service runs without a broker)
	app.producer = newProducer(cfg, slogLogger)

	// Repositories
	studentRepo := student.NewRepository(database)
	courseRepo := course.NewRepository(database)
	enrollmentRepo := enrollment.NewRepository(database)

	// Services
	studentService := student.NewService(studentRepo, app.producer, slogLogger)
	courseService := course.NewService(courseRepo, app.producer, slogLogger)
	enrollmentService := enrollment.NewService(enrollmentRepo, studentRepo, courseRepo, app.producer, slogLogger)

	// Handlers
	studentHandler := student.NewHandler(studentService, slogLogger, m)
	courseHandler := course.NewHandler(courseService, slogLogger, m)
	enrollmentHandler := enrollment.NewHandler(enrollmentService, slogLogger, m)

	app.router.Route("/api", func(r chi.Router) {
		studentHandler.RegisterRoutes(r)
		courseHandler.RegisterRoutes(r)
		enrollmentHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func newProducer(cfg *config.Config, logger *slog.Logger) events.Producer {
	switch cfg.Events.Backend {
	case "nats":
		producer, err := events.NewNATSProducer(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS producer, events disabled", "error", err)
			return nil
		}
		return producer
	case "kafka":
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("failed to initialize kafka producer, events disabled", "error", err)
			return nil
		}
		return producer
	default:
		logger.Info("domain events disabled")
		return nil
	}
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

	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close event producer", "error", err)
		}
	}

	if a.meterProvider != nil {
		if err := telemetry.Shutdown(ctx, a.meterProvider, a.logger); err != nil {
			a.logger.Warn("failed to shutdown telemetry", "error", err)
		}
	}

	db.Close(a.db)
	return nil
}
