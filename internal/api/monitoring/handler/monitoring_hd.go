package monitoringHandler

import (
	"ProctorGuard/internal/api/monitoring"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/handlerUtil"
	"ProctorGuard/pkg/log"
	"ProctorGuard/pkg/response"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
)

const frameTimeout = 10 * time.Second

func (h *MonitoringHandler) DetectRealtime(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), frameTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing realtime frame")

	var req monitoring.RealtimeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.monitoringService.ProcessFrame(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_realtime")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *MonitoringHandler) ResetState(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req monitoring.ResetRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.monitoringService.Reset(c, req))
}

type streamError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// handleRealtimeStream runs the realtime pipeline once per text message, each
// message being a RealtimeRequest. Replies keep the request order.
func (h *MonitoringHandler) handleRealtimeStream(c *websocket.Conn) {
	requestID, _ := c.Locals("X-Request-ID").(string)
	h.log.WithField("request_id", requestID).Info("Realtime stream connected")
	defer h.log.WithField("request_id", requestID).Info("Realtime stream disconnected")

	for {
		if err := c.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Warn("Realtime stream read failed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		reply := h.processStreamMessage(requestID, message)

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			return
		}
		if err := c.WriteJSON(reply); err != nil {
			h.log.WithError(err).Warn("Realtime stream write failed")
			return
		}
	}
}

func (h *MonitoringHandler) processStreamMessage(requestID string, message []byte) interface{} {
	var req monitoring.RealtimeRequest
	if err := jsoniter.Unmarshal(message, &req); err != nil {
		return streamError{Error: "invalid message: " + err.Error(), Code: fiber.StatusBadRequest}
	}
	if err := h.validator.Struct(req); err != nil {
		return streamError{Error: "Validation failed: " + err.Error(), Code: fiber.StatusBadRequest}
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), frameTimeout)
	defer cancel()

	resp, err := h.monitoringService.ProcessFrame(ctx, req)
	if err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) {
			return streamError{Error: respErr.Error(), Code: respErr.Code}
		}
		return streamError{Error: "frame processing failed", Code: fiber.StatusInternalServerError}
	}
	return resp
}
