package monitoringService

import (
	"ProctorGuard/internal/api/monitoring"
	"ProctorGuard/internal/engine"
	"ProctorGuard/internal/entity"
	"ProctorGuard/internal/signal"
	"ProctorGuard/pkg/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func pngBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for i := range img.Pix {
		img.Pix[i] = 30
	}
	img.Set(1, 1, color.White)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

type recordingAppender struct {
	mu      sync.Mutex
	records []entity.AlertRecord
}

func (r *recordingAppender) Append(_ context.Context, record entity.AlertRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *recordingAppender) Close() {}

// scriptedSource replays frames in order and remembers what it was given.
type scriptedSource struct {
	mu     sync.Mutex
	frames []entity.SignalFrame
	inputs []signal.FrameInput
}

func (s *scriptedSource) Analyze(ctx context.Context, in signal.FrameInput) (entity.SignalFrame, error) {
	if err := ctx.Err(); err != nil {
		return entity.SignalFrame{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, in)
	frame := s.frames[0]
	if len(s.frames) > 1 {
		s.frames = s.frames[1:]
	}
	return frame, nil
}

func cleanFrame() entity.SignalFrame {
	return entity.SignalFrame{
		IdentityVerified: true,
		IdentityScore:    0.9,
		IdentityMessage:  "identity confirmed for s",
		HeadPose:         &entity.HeadPose{},
		FaceCount:        1,
		Voice:            entity.VoiceOk(false),
	}
}

func newService(source signal.SignalSource, appender *recordingAppender, opts ...Option) (IMonitoringService, *engine.Engine) {
	e := engine.New(entity.DefaultThresholds())
	return NewMonitoringService(quietLogger(), e, source, appender, utils.New(), opts...), e
}

func TestProcessFrame_CleanFrameIsNotLogged(t *testing.T) {
	t.Parallel()

	appender := &recordingAppender{}
	svc, _ := newService(&scriptedSource{frames: []entity.SignalFrame{cleanFrame()}}, appender)

	resp, err := svc.ProcessFrame(context.Background(), monitoring.RealtimeRequest{Image: pngBase64(t), StudentID: "s"})
	require.NoError(t, err)
	require.False(t, resp.OverallAlert)
	require.Equal(t, "low", resp.AlertLevel)
	require.Equal(t, "tracking initialized", resp.MovementMessage)
	require.Equal(t, "s", resp.SessionID)
	require.Empty(t, appender.records)
}

func TestProcessFrame_CombinedAlertIsLoggedWithEvidence(t *testing.T) {
	t.Parallel()

	frame := cleanFrame()
	frame.FaceCount = 2
	frame.Voice = entity.VoiceOk(true)

	appender := &recordingAppender{}
	svc, _ := newService(&scriptedSource{frames: []entity.SignalFrame{frame}}, appender, WithEvidence(80))

	resp, err := svc.ProcessFrame(context.Background(), monitoring.RealtimeRequest{Image: pngBase64(t), StudentID: "s"})
	require.NoError(t, err)
	require.True(t, resp.OverallAlert)
	require.Equal(t, "high", resp.AlertLevel)
	require.True(t, resp.MultipleFacesDetected)
	require.Equal(t, 2, resp.MultipleFacesCount)

	require.Len(t, appender.records, 1)
	record := appender.records[0]
	require.Equal(t, entity.AlertKindVisualAudio, record.Type)
	require.Equal(t, entity.SeverityHigh, record.AlertLevel)
	require.NotEmpty(t, record.Evidence)

	var details map[string]any
	require.NoError(t, json.Unmarshal(record.Details, &details))
	require.Equal(t, true, details["overall_alert"])
}

func TestProcessFrame_SessionIDOverridesStudent(t *testing.T) {
	t.Parallel()

	moved := cleanFrame()
	moved.HeadPose = &entity.HeadPose{Yaw: 40}

	source := &scriptedSource{frames: []entity.SignalFrame{cleanFrame(), moved}}
	svc, e := newService(source, &recordingAppender{})
	img := pngBase64(t)

	_, err := svc.ProcessFrame(context.Background(), monitoring.RealtimeRequest{Image: img, StudentID: "s", SessionID: "exam-1"})
	require.NoError(t, err)
	resp, err := svc.ProcessFrame(context.Background(), monitoring.RealtimeRequest{Image: img, StudentID: "s", SessionID: "exam-1"})
	require.NoError(t, err)
	require.Equal(t, "exam-1", resp.SessionID)

	require.Equal(t, 1, e.Session("exam-1").MovementCounter)
	require.Equal(t, 0, e.Session("s").MovementCounter)
}

func TestProcessFrame_RejectedInputDoesNotTouchState(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{frames: []entity.SignalFrame{cleanFrame()}}
	svc, e := newService(source, &recordingAppender{})
	ctx := context.Background()

	_, err := svc.ProcessFrame(ctx, monitoring.RealtimeRequest{StudentID: "s"})
	require.ErrorIs(t, err, monitoring.ErrEmptyImage)

	_, err = svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: "%%%", StudentID: "s"})
	require.ErrorIs(t, err, monitoring.ErrInvalidImage)

	_, err = svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: base64.StdEncoding.EncodeToString([]byte("not an image")), StudentID: "s"})
	require.ErrorIs(t, err, monitoring.ErrInvalidImage)

	_, err = svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: pngBase64(t), Audio: "%%%", StudentID: "s"})
	require.ErrorIs(t, err, monitoring.ErrInvalidAudio)

	require.Empty(t, source.inputs)
	require.Zero(t, e.ActiveSessions())
}

func TestProcessFrame_CancelledContext(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{frames: []entity.SignalFrame{cleanFrame()}}
	svc, e := newService(source, &recordingAppender{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: pngBase64(t), StudentID: "s"})
	require.ErrorIs(t, err, monitoring.ErrFrameTimeout)
	require.Zero(t, e.ActiveSessions())
}

func TestProcessFrame_AudioIsPassedThrough(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{frames: []entity.SignalFrame{cleanFrame()}}
	svc, _ := newService(source, &recordingAppender{})

	_, err := svc.ProcessFrame(context.Background(), monitoring.RealtimeRequest{
		Image: pngBase64(t),
		Audio: base64.StdEncoding.EncodeToString([]byte{1, 0, 2, 0}),
	})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 2, 0}, source.inputs[0].Audio)
	require.Equal(t, "unknown", source.inputs[0].StudentID)
}

func TestReset(t *testing.T) {
	t.Parallel()

	moved := cleanFrame()
	moved.HeadPose = &entity.HeadPose{Yaw: 40}
	source := &scriptedSource{frames: []entity.SignalFrame{cleanFrame(), moved}}
	svc, e := newService(source, &recordingAppender{})
	ctx := context.Background()
	img := pngBase64(t)

	for _, student := range []string{"a", "b"} {
		_, err := svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: img, StudentID: student})
		require.NoError(t, err)
	}
	_, err := svc.ProcessFrame(ctx, monitoring.RealtimeRequest{Image: img, StudentID: "b"})
	require.NoError(t, err)
	require.Equal(t, 1, e.Session("b").MovementCounter)

	resp := svc.Reset(ctx, monitoring.ResetRequest{StudentID: "b"})
	require.Equal(t, 1, resp.SessionsCleared)
	require.Equal(t, entity.SessionState{SessionID: "b"}, e.Session("b"))

	resp = svc.Reset(ctx, monitoring.ResetRequest{})
	require.Equal(t, 2, resp.SessionsCleared)

	resp = svc.Reset(ctx, monitoring.ResetRequest{StudentID: "nobody"})
	require.Zero(t, resp.SessionsCleared)

	resp = svc.Reset(ctx, monitoring.ResetRequest{SessionID: "a", Teardown: true})
	require.Equal(t, 1, resp.SessionsCleared)
	require.Equal(t, 1, e.ActiveSessions())

	resp = svc.Reset(ctx, monitoring.ResetRequest{SessionID: "a", Teardown: true})
	require.Zero(t, resp.SessionsCleared)
}
