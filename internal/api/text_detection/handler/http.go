package textDetectionHandler

import (
	textDetectionService "ProctorGuard/internal/api/text_detection/service"
	"ProctorGuard/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TextDetectionHandler struct {
	log                  *logrus.Logger
	validator            *validator.Validate
	middleware           middleware.Middleware
	textDetectionService textDetectionService.ITextDetectionService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ts textDetectionService.ITextDetectionService,
) *TextDetectionHandler {
	return &TextDetectionHandler{
		log:                  log,
		validator:            validate,
		middleware:           middleware,
		textDetectionService: ts,
	}
}

func (h *TextDetectionHandler) Start(srv fiber.Router) {
	detect := srv.Group("/detect")
	detect.Post("/text", h.middleware.NewRateLimiter, h.DetectText)
}
