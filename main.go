package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/handlers"
	"foodgram/internal/logging"
	"foodgram/internal/media"
	"foodgram/internal/repositories"
	"foodgram/internal/routes"
	"foodgram/internal/services"
	"foodgram/internal/storage"
	"foodgram/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.LogLevel)

	// --- Sentry error tracking ---
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app, cleanup, err := newApp(cfg)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "addr", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// newApp wires storage, services and handlers into a fiber app. The returned
// cleanup closes the database and the broker connection.
func newApp(cfg *config.Config) (*fiber.App, func(), error) {
	ctx := context.Background()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}
	if err := database.Migrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}

	// --- Media storage ---
	var store storage.Store
	var localMedia string
	switch cfg.MediaBackend {
	case "s3":
		client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:       cfg.S3.Region,
			BaseEndpoint: cfg.S3.BaseEndpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
		})
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		store = storage.NewS3Store(client, cfg.S3.Bucket, cfg.MediaURL)
	default:
		local := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
		store, localMedia = local, local.Root()
	}

	// --- Recipe events ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = mqClient
		if cfg.EventsConsume {
			if err := mqClient.Consume(rabbitmq.LogEvent(slog.Default())); err != nil {
				slog.Error("failed to start event consumer", "error", err)
			}
		}
	}
	cleanup := func() {
		if mqClient != nil {
			mqClient.Close()
		}
		closeDB()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	tokenRepo := repositories.NewGORMTokenRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	subRepo := repositories.NewGORMSubscriptionRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWTSecret, cfg.TokenTTL)
	authService.PurgeRevoked(ctx)
	userService := services.NewUserService(userRepo, subRepo, recipeRepo, store, publisher)
	recipeService := services.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favoriteRepo, cartRepo, subRepo,
		store, media.NewProcessor(cfg.ImageMaxWidth), publisher)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if localMedia != "" {
		app.Static("/media", localMedia)
	}

	routes.Setup(app, authService, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Users:       handlers.NewUserHandler(userService, authService, cfg.PageSize),
		Tags:        handlers.NewTagHandler(services.NewTagService(tagRepo)),
		Ingredients: handlers.NewIngredientHandler(services.NewIngredientService(ingredientRepo)),
		Recipes:     handlers.NewRecipeHandler(recipeService, cfg.PageSize),
		Health:      handlers.NewHealthHandler(db),
	})

	return app, cleanup, nil
}
