package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brlima/auth-gateway/internal/api/http/handler"
	"github.com/brlima/auth-gateway/internal/api/http/router"
	"github.com/brlima/auth-gateway/internal/api/http/server"
	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/metrics"
	"github.com/brlima/auth-gateway/internal/provider/cognito"
	"github.com/brlima/auth-gateway/internal/queue"
	"github.com/brlima/auth-gateway/internal/queue/amqp"
	"github.com/brlima/auth-gateway/internal/repository/postgres"
	"github.com/brlima/auth-gateway/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		logger.Fatal("failed to load AWS config", "error", err)
	}
	provider := cognito.NewClient(cip.NewFromConfig(awsCfg), cfg.Cognito, logger)

	queueClient := amqp.NewClient(cfg.Queue, logger)
	publisher := queue.NewPublisher(queueClient, cfg.Queue.Queues, logger)

	authService := service.NewAuth(provider, userRepo, publisher, logger)

	registry := prometheus.NewRegistry()
	metrics.RegisterCollectors(registry)

	engine := router.New(
		handler.NewAuth(authService, logger),
		handler.NewHealth(publisher),
		registry,
		logger,
	)
	srv := server.New(cfg.HTTP, engine, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	if err := publisher.Disconnect(); err != nil {
		logger.Error("error during queue disconnect", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
