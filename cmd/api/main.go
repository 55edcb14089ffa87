package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movieshop/internal/client"
	"movieshop/internal/config"
	"movieshop/internal/handler"
	"movieshop/internal/notification"
	"movieshop/internal/repository"
	"movieshop/internal/server"
	"movieshop/internal/service"
	"movieshop/internal/token"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(&cfg.Log)

	db, err := client.InitSqliteClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init database")
	}

	rdb, err := client.InitRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("init redis")
	}

	paymentClient := client.NewPaymentClient(&cfg.Gateway)
	tokenMaker := token.NewMaker(cfg.Auth.TokenSecret, cfg.Auth.TokenDuration)
	dispatcher := notification.NewDispatcher(
		notification.NewRedisQueue(rdb, cfg.Redis.Queue),
		logger.With().Str("component", "notifications").Logger(),
	)

	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	intentRepo := repository.NewPaymentIntentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if cfg.Environment.Name == "development" {
		if err := movieRepo.Seed(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("seed catalog")
		}
	}

	authService := service.NewAuthService(userRepo, tokenMaker, dispatcher)
	catalogService := service.NewCatalogService(movieRepo)
	cartService := service.NewCartService(db, cartRepo, movieRepo)
	orderService := service.NewOrderService(db, cartRepo, movieRepo, orderRepo)
	paymentService := service.NewPaymentService(
		db, paymentClient,
		orderRepo, intentRepo, webhookEventRepo, movieRepo, userRepo,
		dispatcher,
		logger.With().Str("component", "payments").Logger(),
	)

	srv := server.NewServer(
		tokenMaker,
		handler.NewAuthHandler(authService),
		handler.NewMovieHandler(catalogService),
		handler.NewCartHandler(cartService),
		handler.NewOrderHandler(orderService),
		handler.NewPaymentHandler(paymentService),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info().Msg("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}

func newLogger(cfg *config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return logger
}
