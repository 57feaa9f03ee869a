package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/internal/config"
	"github.com/ctfarena/backend/internal/downstream"
	"github.com/ctfarena/backend/internal/interpreter"
	"github.com/ctfarena/backend/internal/orchestrator"
	"github.com/ctfarena/backend/internal/server"
	"github.com/ctfarena/backend/pkg/logger"
	"github.com/ctfarena/backend/pkg/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.New(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	shutdownTracing, err := tracing.Setup(context.Background())
	if err != nil {
		zapLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	authSvc := auth.NewService(zapLogger, cfg.JWT.Secret)

	interpClient := interpreter.NewClient(zapLogger, downstream.New(
		zapLogger, "interpreter",
		cfg.Interpreter.BaseURL,
		cfg.Interpreter.RequestTimeout,
		cfg.Interpreter.ConnectTimeout,
	))
	orchClient := orchestrator.NewClient(zapLogger, downstream.New(
		zapLogger, "orchestrator",
		cfg.Orchestrator.BaseURL,
		cfg.Orchestrator.RequestTimeout,
		cfg.Orchestrator.ConnectTimeout,
	))

	srv := server.NewServer(zapLogger, cfg, authSvc, interpClient, orchClient)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Starting gateway", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start gateway", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		zapLogger.Error("Failed to flush traces", zap.Error(err))
	}

	zapLogger.Info("Gateway exited properly")
}
