package signal

import (
	"ProctorGuard/internal/entity"
	"ProctorGuard/pkg/audio"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func filledImage(w, h int, fill color.Gray) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = fill.Y
	}
	return img
}

func TestDetectPaper(t *testing.T) {
	t.Parallel()

	dark := filledImage(320, 240, color.Gray{Y: 40})
	require.False(t, DetectPaper(dark))
	require.False(t, DetectPaper(nil))

	sheet := filledImage(320, 240, color.Gray{Y: 40})
	for y := 60; y < 180; y++ {
		for x := 100; x < 220; x++ {
			sheet.SetGray(x, y, color.Gray{Y: 250})
		}
	}
	require.True(t, DetectPaper(sheet))

	strip := filledImage(320, 240, color.Gray{Y: 40})
	for y := 110; y < 130; y++ {
		for x := 0; x < 320; x++ {
			strip.SetGray(x, y, color.Gray{Y: 250})
		}
	}
	require.False(t, DetectPaper(strip))
}

func TestEnergyDetector(t *testing.T) {
	t.Parallel()

	d := NewEnergyDetector()
	ctx := context.Background()

	require.Equal(t, entity.VoiceErr(entity.VoiceNoInput), d.Detect(ctx, nil))
	require.Equal(t, entity.VoiceErr(entity.VoiceDecodeError), d.Detect(ctx, []byte{1, 2, 3}))

	silence := SineWave(AudioSampleRate/5, AudioSampleRate, 440, 0)
	require.Equal(t, entity.VoiceOk(false), d.Detect(ctx, silence))

	tone := SineWave(AudioSampleRate/5, AudioSampleRate, 440, 0.3)
	require.Equal(t, entity.VoiceOk(true), d.Detect(ctx, tone))
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) TranscribePCM(_ context.Context, _ []byte, _ int) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestWhisperDetector(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tone := SineWave(AudioSampleRate/5, AudioSampleRate, 440, 0.3)
	silence := SineWave(AudioSampleRate/5, AudioSampleRate, 440, 0)

	t.Run("silence never reaches the service", func(t *testing.T) {
		t.Parallel()
		tr := &fakeTranscriber{text: "hello"}
		d := NewWhisperDetector(quietLogger(), tr)
		require.Equal(t, entity.VoiceOk(false), d.Detect(ctx, silence))
		require.Zero(t, tr.calls)
	})

	t.Run("transcript confirms voice", func(t *testing.T) {
		t.Parallel()
		d := NewWhisperDetector(quietLogger(), &fakeTranscriber{text: "what is the answer"})
		require.Equal(t, entity.VoiceOk(true), d.Detect(ctx, tone))
	})

	t.Run("no speech is unclear", func(t *testing.T) {
		t.Parallel()
		d := NewWhisperDetector(quietLogger(), &fakeTranscriber{err: audio.ErrNoSpeech})
		require.Equal(t, entity.VoiceErr(entity.VoiceUnclear), d.Detect(ctx, tone))
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()
		d := NewWhisperDetector(quietLogger(), &fakeTranscriber{err: errors.New("boom")})
		require.Equal(t, entity.VoiceErr(entity.VoiceServiceError), d.Detect(ctx, tone))
	})

	t.Run("open breaker skips the service", func(t *testing.T) {
		t.Parallel()
		tr := &fakeTranscriber{err: errors.New("boom")}
		d := NewWhisperDetector(quietLogger(), tr)
		for i := 0; i < 8; i++ {
			require.Equal(t, entity.VoiceErr(entity.VoiceServiceError), d.Detect(ctx, tone))
		}
		require.Equal(t, 5, tr.calls)
	})
}

func TestSimulatedVision_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewSimulatedVision(42, []string{"student_A_123"})
	b := NewSimulatedVision(42, []string{"student_A_123"})
	in := FrameInput{StudentID: "student_A_123"}

	for i := 0; i < 200; i++ {
		require.Equal(t, a.Detect(context.Background(), in), b.Detect(context.Background(), in))
	}
}

func TestSimulatedVision_Unenrolled(t *testing.T) {
	t.Parallel()

	v := NewSimulatedVision(1, []string{"student_A_123"})
	frame := v.Detect(context.Background(), FrameInput{StudentID: "ghost"})

	require.False(t, frame.IdentityVerified)
	require.Zero(t, frame.IdentityScore)
	require.Equal(t, "student id 'ghost' is not enrolled", frame.IdentityMessage)
}

type fakeInference struct {
	result *entity.InferenceResult
	err    error
}

func (f *fakeInference) ProcessFrame(string, []byte) (*entity.InferenceResult, error) {
	return f.result, f.err
}
func (f *fakeInference) IsConnected() bool { return f.err == nil }
func (f *fakeInference) Reconnect() error  { return nil }
func (f *fakeInference) CloseConnections() {}

func TestRemoteVision(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	one, zero := 1, 0
	objects := []string{"book"}

	t.Run("full result", func(t *testing.T) {
		t.Parallel()
		v := NewRemoteVision(quietLogger(), &fakeInference{result: &entity.InferenceResult{
			Identity:  &entity.InferenceIdentity{Verified: true, Score: 0.9, Message: "ok"},
			HeadPose:  &entity.HeadPose{Yaw: 3},
			FaceCount: &one,
			Objects:   &objects,
		}})
		frame := v.Detect(ctx, FrameInput{StudentID: "s"})
		require.Empty(t, frame.Unavailable)
		require.True(t, frame.IdentityVerified)
		require.Equal(t, 3.0, frame.HeadPose.Yaw)
		require.Equal(t, []string{"book"}, frame.DetectedObjects)
	})

	t.Run("missing sections", func(t *testing.T) {
		t.Parallel()
		v := NewRemoteVision(quietLogger(), &fakeInference{result: &entity.InferenceResult{FaceCount: &zero}})
		frame := v.Detect(ctx, FrameInput{StudentID: "s"})
		require.True(t, frame.IsUnavailable(entity.SignalIdentity))
		require.True(t, frame.IsUnavailable(entity.SignalObjects))
		require.False(t, frame.IsUnavailable(entity.SignalMovement))
		require.False(t, frame.IsUnavailable(entity.SignalMultipleFaces))
		require.Nil(t, frame.HeadPose)
	})

	t.Run("service down", func(t *testing.T) {
		t.Parallel()
		v := NewRemoteVision(quietLogger(), &fakeInference{err: errors.New("down")})
		frame := v.Detect(ctx, FrameInput{StudentID: "s"})
		for _, kind := range visualKinds {
			require.True(t, frame.IsUnavailable(kind))
		}
	})
}

type stubVoice struct{ outcome entity.VoiceOutcome }

func (s stubVoice) Detect(context.Context, []byte) entity.VoiceOutcome { return s.outcome }

type failingDevice struct{}

func (failingDevice) ReadSegment(context.Context) ([]byte, error) {
	return nil, errors.New("unplugged")
}

func TestSource_Analyze(t *testing.T) {
	t.Parallel()

	vision := NewSimulatedVision(7, []string{"s"})

	t.Run("no audio and no device", func(t *testing.T) {
		t.Parallel()
		src := NewSource(quietLogger(), vision, stubVoice{entity.VoiceOk(true)})
		frame, err := src.Analyze(context.Background(), FrameInput{StudentID: "s"})
		require.NoError(t, err)
		require.Equal(t, entity.VoiceErr(entity.VoiceNoInput), frame.Voice)
	})

	t.Run("inline audio", func(t *testing.T) {
		t.Parallel()
		src := NewSource(quietLogger(), vision, stubVoice{entity.VoiceOk(true)})
		frame, err := src.Analyze(context.Background(), FrameInput{StudentID: "s", Audio: []byte{0, 0}})
		require.NoError(t, err)
		require.Equal(t, entity.VoiceOk(true), frame.Voice)
	})

	t.Run("capture failure", func(t *testing.T) {
		t.Parallel()
		device := NewExclusiveDevice(failingDevice{}, time.Second)
		src := NewSource(quietLogger(), vision, stubVoice{entity.VoiceOk(true)}, WithCaptureDevice(device))
		frame, err := src.Analyze(context.Background(), FrameInput{StudentID: "s"})
		require.NoError(t, err)
		require.Equal(t, entity.VoiceErr(entity.VoiceCaptureError), frame.Voice)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := NewSource(quietLogger(), vision, stubVoice{entity.VoiceOk(true)})
		_, err := src.Analyze(ctx, FrameInput{StudentID: "s"})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestExclusiveDevice_Serializes(t *testing.T) {
	t.Parallel()

	mic := NewSimulatedMicrophone(3)
	device := NewExclusiveDevice(mic, time.Second)

	done := make(chan int, 4)
	for i := 0; i < 4; i++ {
		go func() {
			pcm, err := device.Capture(context.Background())
			require.NoError(t, err)
			done <- len(pcm)
		}()
	}
	for i := 0; i < 4; i++ {
		require.Equal(t, AudioSampleRate/5*2, <-done)
	}
}
