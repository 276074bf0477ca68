package monitoringService

import (
	"ProctorGuard/internal/api/monitoring"
	"ProctorGuard/internal/engine"
	"ProctorGuard/internal/entity"
	"ProctorGuard/internal/signal"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/metrics"
	"ProctorGuard/pkg/response"
	"context"
	"image"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const unknownStudent = "unknown"

func (s *monitoringService) ProcessFrame(ctx context.Context, req monitoring.RealtimeRequest) (monitoring.RealtimeResponse, error) {
	started := time.Now()
	requestID := contextPkg.GetRequestID(ctx)

	in, err := s.decode(req)
	if err != nil {
		metrics.RecordFrame("rejected", started)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"student_id": req.StudentID,
			"error":      err.Error(),
		}).Warn("Frame rejected")
		return monitoring.RealtimeResponse{}, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = in.StudentID
	}
	ctx = contextPkg.WithSessionID(ctx, sessionID)

	frame, err := s.source.Analyze(ctx, in)
	if err != nil {
		metrics.RecordFrame("cancelled", started)
		return monitoring.RealtimeResponse{}, response.Wrap(monitoring.ErrFrameTimeout, err)
	}

	decision := s.engine.Process(sessionID, frame)
	metrics.ActiveSessions.Set(float64(s.engine.ActiveSessions()))

	resp := flatten(sessionID, frame, decision)

	if decision.OverallAlert {
		s.logAlert(ctx, in, resp, decision)
	}

	metrics.RecordFrame("ok", started)
	return resp, nil
}

func (s *monitoringService) decode(req monitoring.RealtimeRequest) (signal.FrameInput, error) {
	if req.Image == "" {
		return signal.FrameInput{}, monitoring.ErrEmptyImage
	}

	raw, err := s.utils.DecodeBase64(req.Image)
	if err != nil {
		return signal.FrameInput{}, response.Wrap(monitoring.ErrInvalidImage, err)
	}

	img, _, err := s.utils.DecodeImage(raw)
	if err != nil {
		return signal.FrameInput{}, response.Wrap(monitoring.ErrInvalidImage, err)
	}

	var pcm []byte
	if req.Audio != "" {
		pcm, err = s.utils.DecodeBase64(req.Audio)
		if err != nil {
			return signal.FrameInput{}, response.Wrap(monitoring.ErrInvalidAudio, err)
		}
	}

	studentID := req.StudentID
	if studentID == "" {
		studentID = unknownStudent
	}

	return signal.FrameInput{
		StudentID: studentID,
		Image:     img,
		Raw:       raw,
		Audio:     pcm,
	}, nil
}

func (s *monitoringService) logAlert(ctx context.Context, in signal.FrameInput, resp monitoring.RealtimeResponse, decision entity.AlertDecision) {
	fields := logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": resp.SessionID,
		"student_id": in.StudentID,
		"severity":   decision.Severity,
	}

	details, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(resp)
	if err != nil {
		metrics.RecordAlertLogFailure("encode")
		s.log.WithFields(fields).WithError(err).Error("Failed to encode alert details")
		return
	}

	record := entity.AlertRecord{
		StudentID:  in.StudentID,
		Type:       entity.AlertKindVisualAudio,
		AlertLevel: decision.Severity,
		Message:    decision.Message,
		Details:    details,
	}

	if decision.Severity == entity.SeverityHigh && s.evidenceQuality > 0 {
		record.Evidence = s.evidence(fields, in.Image)
	}

	s.log.WithFields(fields).Info(decision.Message)
	s.appender.Append(ctx, record)
}

func (s *monitoringService) evidence(fields logrus.Fields, img image.Image) []byte {
	jpeg, err := s.utils.EncodeJPEG(img, s.evidenceQuality)
	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("Failed to encode evidence frame")
		return nil
	}
	return jpeg
}

func flatten(sessionID string, frame entity.SignalFrame, decision entity.AlertDecision) monitoring.RealtimeResponse {
	detail := decision.PerSignalDetail
	return monitoring.RealtimeResponse{
		SessionID: sessionID,

		IdentityVerified: frame.IdentityVerified,
		IdentityScore:    frame.IdentityScore,
		IdentityMessage:  detail[entity.SignalIdentity].Message,

		AbnormalMovementDetected: detail[entity.SignalMovement].Triggered,
		MovementMessage:          detail[entity.SignalMovement].Message,
		HeadPose:                 frame.HeadPose,

		MultipleFacesDetected: detail[entity.SignalMultipleFaces].Triggered,
		MultipleFacesCount:    frame.FaceCount,
		MultipleFacesMessage:  detail[entity.SignalMultipleFaces].Message,

		SuspectObjectsDetected: detail[entity.SignalObjects].Triggered,
		ObjectsMessage:         detail[entity.SignalObjects].Message,
		DetectedObjectList:     engine.ObjectLabels(frame),

		UnexpectedVoiceDetected: detail[entity.SignalVoice].Triggered,
		VoiceMessage:            detail[entity.SignalVoice].Message,

		OverallAlert:        decision.OverallAlert,
		OverallAlertMessage: decision.Message,
		AlertLevel:          string(decision.Severity),
	}
}
