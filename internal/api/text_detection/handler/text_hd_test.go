package textDetectionHandler

import (
	textdetection "ProctorGuard/internal/api/text_detection"
	"ProctorGuard/internal/middleware"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeTextService struct{}

func (fakeTextService) DetectText(_ context.Context, req textdetection.TextDetectionRequest) (textdetection.TextDetectionResponse, error) {
	if req.Text == "" {
		return textdetection.TextDetectionResponse{}, textdetection.ErrEmptyText
	}
	return textdetection.TextDetectionResponse{
		PlagiarismScore: 0.5,
		PlagiarismFlags: []string{},
		AIContentScore:  0.1,
		AlertLevel:      "medium",
		Message:         "text detection: plagiarism=0.50, ai=0.10",
	}, nil
}

func newTestApp() *fiber.App {
	log := logrus.New()
	log.SetOutput(io.Discard)

	mw := middleware.New(log)
	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, fakeTextService{}).Start(app.Group("/api"))
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/api/detect/text", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestDetectText(t *testing.T) {
	t.Parallel()

	app := newTestApp()

	status, body := post(t, app, `{"text":"an essay","student_id":"student_A_123"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "medium", body["alert_level"])
	require.Equal(t, []any{}, body["plagiarism_flags"])

	status, body = post(t, app, `{"text":"","student_id":"student_A_123"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "EMPTY_TEXT", body["code"])

	status, _ = post(t, app, `{"text":`)
	require.Equal(t, fiber.StatusBadRequest, status)
}
