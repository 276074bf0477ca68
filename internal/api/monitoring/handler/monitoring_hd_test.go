package monitoringHandler

import (
	monitoringService "ProctorGuard/internal/api/monitoring/service"
	"ProctorGuard/internal/engine"
	"ProctorGuard/internal/entity"
	"ProctorGuard/internal/middleware"
	"ProctorGuard/internal/signal"
	"ProctorGuard/pkg/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type countingAppender struct {
	mu      sync.Mutex
	records int
}

func (c *countingAppender) Append(context.Context, entity.AlertRecord) {
	c.mu.Lock()
	c.records++
	c.mu.Unlock()
}

func (c *countingAppender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

func (c *countingAppender) Close() {}

func newTestApp(t *testing.T) (*fiber.App, *countingAppender) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	source := signal.NewSource(log, signal.NewSimulatedVision(11, []string{"student_A_123"}), signal.NewEnergyDetector())
	appender := &countingAppender{}
	svc := monitoringService.NewMonitoringService(log, engine.New(entity.DefaultThresholds()), source, appender, utils.New())

	mw := middleware.New(log)
	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, svc).Start(app.Group("/api"))
	return app, appender
}

func frameBase64(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 48))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestDetectRealtime_UnenrolledStudent(t *testing.T) {
	t.Parallel()

	app, appender := newTestApp(t)

	status, body := postJSON(t, app, "/api/detect/realtime", `{"image":"`+frameBase64(t)+`","student_id":"ghost"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["identity_verified"])
	require.Equal(t, "student id 'ghost' is not enrolled", body["identity_message"])
	require.Equal(t, true, body["overall_alert"])
	require.Equal(t, "high", body["alert_level"])
	require.Equal(t, "no audio input", body["voice_message"])

	for _, key := range []string{
		"identity_score", "abnormal_movement_detected", "movement_message", "head_pose",
		"multiple_faces_detected", "multiple_faces_count", "multiple_faces_message",
		"suspect_objects_detected", "objects_message", "detected_object_list",
		"unexpected_voice_detected", "overall_alert_message",
	} {
		require.Contains(t, body, key)
	}

	require.Equal(t, 1, appender.count())
}

func TestDetectRealtime_BadInput(t *testing.T) {
	t.Parallel()

	app, appender := newTestApp(t)

	status, body := postJSON(t, app, "/api/detect/realtime", `{"student_id":"student_A_123"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "EMPTY_IMAGE", body["code"])

	status, body = postJSON(t, app, "/api/detect/realtime", `{"image":"bm90IGFuIGltYWdl","student_id":"student_A_123"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "INVALID_IMAGE", body["code"])

	require.Zero(t, appender.count())
}

func TestResetState(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	_, _ = postJSON(t, app, "/api/detect/realtime", `{"image":"`+frameBase64(t)+`","student_id":"student_A_123"}`)

	req := httptest.NewRequest(fiber.MethodPost, "/api/reset_visual_audio_state", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, float64(1), out["sessions_cleared"])

	status, out := postJSON(t, app, "/api/reset_visual_audio_state", `{"student_id":"student_A_123"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, out["status"], "student_A_123")
}

func TestRealtimeStream_RequiresUpgrade(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/detect/realtime/ws", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
