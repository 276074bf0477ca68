package monitoringHandler

import (
	monitoringService "ProctorGuard/internal/api/monitoring/service"
	"ProctorGuard/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MonitoringHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	monitoringService monitoringService.IMonitoringService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ms monitoringService.IMonitoringService,
) *MonitoringHandler {
	return &MonitoringHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		monitoringService: ms,
	}
}

func (h *MonitoringHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	detect := srv.Group("/detect")
	detect.Post("/realtime", h.middleware.NewRateLimiter, h.DetectRealtime)

	detect.Use("/realtime/ws", wsMiddleware)
	detect.Get("/realtime/ws", websocket.New(h.handleRealtimeStream))

	srv.Post("/reset_visual_audio_state", h.ResetState)
}
