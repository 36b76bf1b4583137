package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	inkafka "marketplace/internal/adapters/in/kafka"
	outkafka "marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres/cartrepo"
	"marketplace/internal/adapters/out/postgres/driverrepo"
	"marketplace/internal/adapters/out/postgres/escrowrepo"
	"marketplace/internal/adapters/out/postgres/mutationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// .env is optional; a real environment overrides it anyway
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := cmd.LoadConfig()

	gormDB, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := migrate(gormDB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	publisher, err := outkafka.NewOrderEventPublisher(
		config.KafkaBrokers, config.KafkaOrderChangedTopic, logger)
	if err != nil {
		logger.Error("failed to create kafka publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = publisher.Close()
	}()

	root, err := cmd.NewCompositionRoot(config, gormDB, publisher, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	reconciler := root.CreateReconciler()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	consumer, err := inkafka.NewOrderEventConsumer(
		config.KafkaBrokers, config.KafkaConsumerGroup,
		[]string{config.KafkaOrderChangedTopic}, reconciler, logger)
	if err != nil {
		logger.Error("failed to create kafka consumer", "error", err)
		os.Exit(1)
	}
	consumer.Start(consumerCtx)
	defer func() {
		stopConsumer()
		_ = consumer.Stop()
	}()

	jobManager := root.CreateJobManager(reconciler)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil {
			logger.Info("http server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&orderrepo.StatusChangeDTO{},
		&escrowrepo.TransactionDTO{},
		&driverrepo.DriverDTO{},
		&cartrepo.CartDTO{},
		&cartrepo.LineDTO{},
		&mutationrepo.MutationDTO{},
	)
}
