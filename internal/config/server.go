package config

import (
	assistantHandler "ProctorGuard/internal/api/assistant/handler"
	assistantService "ProctorGuard/internal/api/assistant/service"
	"ProctorGuard/internal/api/educator"
	educatorHandler "ProctorGuard/internal/api/educator/handler"
	educatorRepository "ProctorGuard/internal/api/educator/repository"
	educatorService "ProctorGuard/internal/api/educator/service"
	monitoringHandler "ProctorGuard/internal/api/monitoring/handler"
	monitoringService "ProctorGuard/internal/api/monitoring/service"
	textDetectionHandler "ProctorGuard/internal/api/text_detection/handler"
	textDetectionService "ProctorGuard/internal/api/text_detection/service"
	"ProctorGuard/internal/engine"
	"ProctorGuard/internal/entity"
	"ProctorGuard/internal/middleware"
	"ProctorGuard/internal/signal"
	"ProctorGuard/pkg/audio"
	"ProctorGuard/pkg/bcrypt"
	"ProctorGuard/pkg/gemini"
	"ProctorGuard/pkg/openai"
	"ProctorGuard/pkg/redis"
	"ProctorGuard/pkg/s3"
	"ProctorGuard/pkg/smtp"
	"ProctorGuard/pkg/utils"
	websocketPkg "ProctorGuard/pkg/websocket"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const evidenceJPEGQuality = 80

type ServerOption func(*Server) error

type Server struct {
	engine          *fiber.App
	db              *sqlx.DB
	log             *logrus.Logger
	middleware      middleware.Middleware
	validator       *validator.Validate
	utils           utils.IUtils
	bcryptUtils     bcrypt.IBcrypt
	thresholds      entity.Thresholds
	handlers        []handler
	redisServer     redis.IRedis
	smtpMailer      smtp.ItfSmtp
	inferenceClient websocketPkg.IWebsocket
	geminiClient    gemini.IGemini
	chatClient      openai.IChatGPT
	s3Client        s3.ItfS3
	appender        educatorService.IAlertAppender
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{thresholds: entity.DefaultThresholds()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.OptionsFromEnv()...)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.bcryptUtils == nil {
		server.bcryptUtils = bcrypt.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := NewDatabase()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithDB(db *sqlx.DB) ServerOption {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithThresholds(path string) ServerOption {
	return func(s *Server) error {
		thresholds, err := LoadThresholds(path)
		if err != nil {
			return fmt.Errorf("failed to load thresholds: %w", err)
		}
		s.thresholds = thresholds
		return nil
	}
}

// The collaborators below are optional. A nil value disables the feature that
// depends on it.

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithInferenceClient(client websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.inferenceClient = client
		return nil
	}
}

func WithS3Client(client s3.ItfS3) ServerOption {
	return func(s *Server) error {
		s.s3Client = client
		return nil
	}
}

func WithGeminiClient(client gemini.IGemini) ServerOption {
	return func(s *Server) error {
		s.geminiClient = client
		return nil
	}
}

func WithChatClient(client openai.IChatGPT) ServerOption {
	return func(s *Server) error {
		s.chatClient = client
		return nil
	}
}

func WithMiddleware(opts ...middleware.Option) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	fusion := engine.New(s.thresholds)

	// Educator Domain
	educatorRepo := educatorRepository.New(s.db, s.log)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := educatorRepo.EnsureSchema(schemaCtx); err != nil {
		return fmt.Errorf("failed to prepare alert log: %w", err)
	}

	s.appender = educatorService.NewAlertAppender(s.log, educatorRepo, s.s3Client, s.redisServer, s.smtpMailer)
	educatorServices := educatorService.NewEducatorService(s.log, educatorRepo, s.s3Client, s.redisServer, s.bcryptUtils, educator.AccountFromEnv())
	educatorHandlers := educatorHandler.New(s.log, s.validator, s.middleware, educatorServices)

	// Monitoring
	source, err := s.newSignalSource()
	if err != nil {
		return err
	}

	var monitoringOpts []monitoringService.Option
	if s.s3Client != nil {
		monitoringOpts = append(monitoringOpts, monitoringService.WithEvidence(evidenceJPEGQuality))
	}
	monitoringServices := monitoringService.NewMonitoringService(s.log, fusion, source, s.appender, s.utils, monitoringOpts...)
	monitoringHandlers := monitoringHandler.New(s.log, s.validator, s.middleware, monitoringServices)

	// Text Detection
	scorer := textDetectionService.NewSimulatedScorer(seedFromEnv())
	var aiScorer textDetectionService.AIContentScorer = scorer
	if s.geminiClient != nil {
		aiScorer = textDetectionService.NewGeminiScorer(s.log, s.geminiClient, scorer)
	}
	textServices := textDetectionService.NewTextDetectionService(s.log, scorer, aiScorer, fusion, s.appender)
	textHandlers := textDetectionHandler.New(s.log, s.validator, s.middleware, textServices)

	// Assistant
	assistantServices := assistantService.NewAssistantService(s.log, s.chatClient)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, monitoringHandlers, textHandlers, assistantHandlers, educatorHandlers)
	return nil
}

func (s *Server) newSignalSource() (*signal.Source, error) {
	seed := seedFromEnv()

	var vision signal.VisionDetector
	switch mode := os.Getenv("SIGNAL_SOURCE"); mode {
	case "", "simulated":
		vision = signal.NewSimulatedVision(seed, signal.EnrolledFromEnv())
	case "remote":
		if s.inferenceClient == nil {
			s.inferenceClient = websocketPkg.NewInferenceClient(s.log)
		}
		vision = signal.NewRemoteVision(s.log, s.inferenceClient)
	default:
		return nil, fmt.Errorf("unsupported SIGNAL_SOURCE %q", mode)
	}

	var voice signal.VoiceDetector = signal.NewEnergyDetector()
	if os.Getenv("VOICE_DETECTOR") == "whisper" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("VOICE_DETECTOR=whisper requires OPENAI_API_KEY")
		}
		voice = signal.NewWhisperDetector(s.log, audio.NewTranscriptionService(apiKey))
	}

	var opts []signal.SourceOption
	if os.Getenv("CAPTURE_DEVICE") == "simulated" {
		device := signal.NewExclusiveDevice(signal.NewSimulatedMicrophone(seed), 2*time.Second)
		opts = append(opts, signal.WithCaptureDevice(device))
	}

	s.log.WithFields(logrus.Fields{
		"signal_source":  os.Getenv("SIGNAL_SOURCE"),
		"voice_detector": os.Getenv("VOICE_DETECTOR"),
		"capture_device": os.Getenv("CAPTURE_DEVICE"),
	}).Info("Signal source configured")

	return signal.NewSource(s.log, vision, voice, opts...), nil
}

func seedFromEnv() uint64 {
	if seed, err := strconv.ParseUint(os.Getenv("SIMULATION_SEED"), 10, 64); err == nil {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	router := s.engine.Group("/api")
	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests, then drains the alert log before the
// clients it writes to are closed.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.appender != nil {
		s.appender.Close()
	}
	if s.inferenceClient != nil {
		s.inferenceClient.CloseConnections()
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.redisServer != nil {
		if cerr := s.redisServer.Close(); cerr != nil {
			s.log.Warnf("Failed to close redis client: %v", cerr)
		}
	}
	if cerr := s.db.Close(); cerr != nil {
		s.log.Warnf("Failed to close database: %v", cerr)
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
