package educatorHandler

import (
	educatorService "ProctorGuard/internal/api/educator/service"
	"ProctorGuard/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type EducatorHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	educatorService educatorService.IEducatorService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	es educatorService.IEducatorService,
) *EducatorHandler {
	return &EducatorHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		educatorService: es,
	}
}

func (h *EducatorHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	educator := srv.Group("/educator")
	educator.Post("/login", h.Login)
	educator.Get("/alerts", h.middleware.NewTokenMiddleware, h.ListAlerts)

	educator.Use("/alerts/ws", h.middleware.NewTokenMiddleware, wsMiddleware)
	educator.Get("/alerts/ws", websocket.New(h.handleLiveFeed))
}
