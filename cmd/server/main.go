package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/config"
	"github.com/AnikethTS/citadel-backend-v2/internal/handler"
	"github.com/AnikethTS/citadel-backend-v2/internal/middleware"
	"github.com/AnikethTS/citadel-backend-v2/internal/repository"
	"github.com/AnikethTS/citadel-backend-v2/internal/service"
)

func main() {
	cfg := config.Load()

	var logger zerolog.Logger
	if cfg.IsProduction() {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}

	// Storage
	messages := repository.NewMessageLog(cfg.MessagesFile)
	blobs, err := repository.NewBlobStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("init blob store")
	}

	// Push notifications
	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.PushURL != "" {
		notifier = service.NewPushNotifier(cfg.PushURL, cfg.PushTopic, cfg.PushToken)
		logger.Info().Str("topic", cfg.PushTopic).Msg("push notifications enabled")
	}

	// Relay
	hub := service.NewHub(logger.With().Str("component", "hub").Logger())
	dispatcher := service.NewDispatcher(messages, hub, notifier,
		logger.With().Str("component", "dispatcher").Logger())

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		BodyLimit:   25 * 1024 * 1024, // media uploads
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(logger.With().Str("component", "http").Logger()))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Health & metrics
	healthH := handler.NewHealthHandler(messages, hub)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Chat history
	messageH := handler.NewMessageHandler(messages, logger.With().Str("component", "messages").Logger())
	app.Get("/", messageH.Index)
	app.Get("/get_messages", messageH.GetMessages)

	// Media uploads
	uploadH := handler.NewUploadHandler(blobs, dispatcher, cfg.PublicBaseURL,
		logger.With().Str("component", "uploads").Logger())
	app.Post("/upload", middleware.RateLimit(30, time.Minute), uploadH.Upload)
	app.Get("/uploads/:name", uploadH.ServeUpload)

	// WebSocket relay
	wsH := handler.NewWSHandler(hub, dispatcher, logger.With().Str("component", "ws").Logger())
	app.Get("/ws", wsH.Upgrade)

	go hub.Run()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("citadel backend running")

	<-quit
	logger.Info().Msg("shutting down")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	hub.Shutdown()
	logger.Info().Msg("server stopped")
}
