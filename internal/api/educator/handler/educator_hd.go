package educatorHandler

import (
	"ProctorGuard/internal/api/educator"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/handlerUtil"
	jwtPkg "ProctorGuard/pkg/jwt"
	"ProctorGuard/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

func (h *EducatorHandler) ListAlerts(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	fields := log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}
	if claims, err := jwtPkg.GetEducator(ctx); err == nil {
		fields["educator"] = claims.Username
	}
	h.log.WithFields(fields).Debug("Processing list alerts request")

	alerts, err := h.educatorService.ListAlerts(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_alerts")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, alerts)
	}
}

func (h *EducatorHandler) Login(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req educator.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.educatorService.Login(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "educator_login")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

// handleLiveFeed relays every alert published after the connection opened.
// Client messages are only read to notice the close.
func (h *EducatorHandler) handleLiveFeed(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, closeFeed, err := h.educatorService.SubscribeAlerts(ctx)
	if err != nil {
		h.log.WithError(err).Warn("Live alert feed unavailable")
		_ = c.WriteJSON(fiber.Map{"error": educator.ErrLiveFeedUnavailable.Error()})
		return
	}
	defer func() { _ = closeFeed() }()

	h.log.Info("Educator live feed connected")
	defer h.log.Info("Educator live feed disconnected")

	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-feed:
			if !ok {
				return
			}
			if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.WithError(err).Debug("Live feed write failed")
				return
			}
		}
	}
}
