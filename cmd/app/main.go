package main

import (
	"ProctorGuard/internal/config"
	"ProctorGuard/internal/middleware"
	"ProctorGuard/pkg/gemini"
	"ProctorGuard/pkg/log"
	"ProctorGuard/pkg/openai"
	"ProctorGuard/pkg/redis"
	"ProctorGuard/pkg/s3"
	"ProctorGuard/pkg/smtp"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithThresholds(os.Getenv("THRESHOLDS_FILE")),
		config.WithRedisServer(optional(logger, "redis", redis.New)),
		config.WithSMTPMailer(optional(logger, "smtp", smtp.New)),
		config.WithS3Client(optional(logger, "s3", s3.New)),
		config.WithGeminiClient(optional(logger, "gemini", gemini.NewGeminiClient)),
		config.WithChatClient(optional(logger, "openai", openai.NewChatGPT)),
		config.WithMiddleware(middleware.OptionsFromEnv()...),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}

// optional builds an external client and returns the zero value when it is not
// configured or fails to start, so the server runs without that feature.
func optional[T any](logger *logrus.Logger, name string, build func() (T, error)) T {
	client, err := build()
	if err != nil {
		logger.WithField("client", name).Warnf("Disabled: %v", err)
		var zero T
		return zero
	}
	return client
}
