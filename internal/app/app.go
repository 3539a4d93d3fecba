package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/RubachokBoss/grade-tracker/internal/config"
	"github.com/RubachokBoss/grade-tracker/internal/delivery/httpd"
	"github.com/RubachokBoss/grade-tracker/internal/demo"
	"github.com/RubachokBoss/grade-tracker/internal/middleware"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
	"github.com/RubachokBoss/grade-tracker/internal/service"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/RubachokBoss/grade-tracker/internal/service/integration"
	redisclient "github.com/RubachokBoss/grade-tracker/pkg/redis"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	redis     *redis.Client
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	dataset, err := demo.Load(cfg.Demo.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load demo dataset: %w", err)
	}

	// Издатель событий: без RabbitMQ события только пишутся в лог
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = integration.NewRabbitMQClient(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ client, grade events will only be logged")
		}
	}
	if publisher == nil {
		publisher = integration.NewLogPublisher(log)
	}

	// Гостевой режим требует Redis; без него работают только пользователи
	var (
		rdb        *redis.Client
		guestStore repository.GuestStore
	)
	if cfg.Guest.Enabled {
		rdb, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Redis, guest mode disabled")
		} else {
			guestStore = repository.NewGuestStore(rdb, cfg.Guest.SessionTTL, log)
		}
	}

	// Репозитории
	courseRepo := repository.NewCourseRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)

	stores := repository.NewStoreResolver(courseRepo, guestStore)

	// Сервисы
	aggregator := grading.NewCourseAggregator()
	courseService := service.NewCourseService(stores, aggregator, publisher, log)
	assignmentService := service.NewAssignmentService(stores, aggregator, publisher, log)
	userService := service.NewUserService(userRepo, log)
	guestService := service.NewGuestService(guestStore, dataset, aggregator, log)
	exportService := service.NewExportService(stores, aggregator, log)

	handler := httpd.NewHandler(
		courseService,
		assignmentService,
		userService,
		guestService,
		exportService,
		log,
	)
	handler.AddHealthCheck("postgres", db.PingContext)
	if rdb != nil {
		handler.AddHealthCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(middleware.NewCORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
		cfg.CORS.ExposedHeaders,
		cfg.CORS.AllowCredentials,
		cfg.CORS.MaxAge,
	))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		redis:     rdb,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting grade tracker on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down grade tracker...")

	err := a.server.Shutdown(ctx)

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return err
}
