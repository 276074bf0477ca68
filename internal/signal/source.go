// Package signal turns a decoded frame and an optional audio chunk into a
// typed entity.SignalFrame. Vision and voice detection are interchangeable
// strategies: simulated ones for demos and tests, remote ones backed by the
// inference service and Whisper.
//
// Detector failures never surface as errors. The affected signal kinds are
// marked unavailable on the frame and the engine degrades them to not
// triggered. Analyze only fails when the caller's context is done, in which
// case the frame must not reach the session store.
package signal

import (
	"ProctorGuard/internal/entity"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/metrics"
	"context"
	"image"

	"github.com/sirupsen/logrus"
)

// AudioSampleRate is the rate inline PCM chunks are expected at.
const AudioSampleRate = 44100

type FrameInput struct {
	StudentID string
	Image     image.Image
	Raw       []byte
	// Audio is mono 16-bit little-endian PCM. Nil when the client sent none.
	Audio []byte
}

type SignalSource interface {
	Analyze(ctx context.Context, in FrameInput) (entity.SignalFrame, error)
}

type VisionDetector interface {
	Detect(ctx context.Context, in FrameInput) entity.SignalFrame
}

type VoiceDetector interface {
	Detect(ctx context.Context, pcm []byte) entity.VoiceOutcome
}

type Source struct {
	vision VisionDetector
	voice  VoiceDetector
	device *ExclusiveDevice
	log    *logrus.Logger
}

type SourceOption func(*Source)

// WithCaptureDevice enables the shared capture device for frames that arrive
// without an inline audio chunk.
func WithCaptureDevice(device *ExclusiveDevice) SourceOption {
	return func(s *Source) {
		s.device = device
	}
}

func NewSource(log *logrus.Logger, vision VisionDetector, voice VoiceDetector, opts ...SourceOption) *Source {
	s := &Source{
		vision: vision,
		voice:  voice,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Analyze(ctx context.Context, in FrameInput) (entity.SignalFrame, error) {
	frame := s.vision.Detect(ctx, in)
	frame.Voice = s.detectVoice(ctx, in)

	if err := ctx.Err(); err != nil {
		return entity.SignalFrame{}, err
	}

	for kind, down := range frame.Unavailable {
		if down {
			metrics.RecordDetectorUnavailable(string(kind))
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"session_id": contextPkg.GetSessionID(ctx),
				"student_id": in.StudentID,
				"signal":     kind,
			}).Warn("Detector unavailable, signal degraded")
		}
	}

	return frame, nil
}

func (s *Source) detectVoice(ctx context.Context, in FrameInput) entity.VoiceOutcome {
	if len(in.Audio) > 0 {
		return s.voice.Detect(ctx, in.Audio)
	}

	if s.device == nil {
		return entity.VoiceErr(entity.VoiceNoInput)
	}

	pcm, err := s.device.Capture(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"student_id": in.StudentID,
			"error":      err.Error(),
		}).Warn("Audio capture failed")
		return entity.VoiceErr(entity.VoiceCaptureError)
	}

	return s.voice.Detect(ctx, pcm)
}

func markUnavailable(frame *entity.SignalFrame, kinds ...entity.SignalKind) {
	if frame.Unavailable == nil {
		frame.Unavailable = make(map[entity.SignalKind]bool, len(kinds))
	}
	for _, kind := range kinds {
		frame.Unavailable[kind] = true
	}
}
