package signal

import (
	"ProctorGuard/internal/entity"
	websocketPkg "ProctorGuard/pkg/websocket"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

var visualKinds = []entity.SignalKind{
	entity.SignalIdentity,
	entity.SignalMovement,
	entity.SignalMultipleFaces,
	entity.SignalObjects,
}

// RemoteVision forwards the raw frame to the inference service. Sections the
// service leaves out are marked unavailable for this frame only.
type RemoteVision struct {
	client  websocketPkg.IWebsocket
	breaker *gobreaker.CircuitBreaker[*entity.InferenceResult]
	log     *logrus.Logger
}

func NewRemoteVision(log *logrus.Logger, client websocketPkg.IWebsocket) *RemoteVision {
	return &RemoteVision{
		client:  client,
		breaker: newBreaker[*entity.InferenceResult]("inference", log),
		log:     log,
	}
}

func (v *RemoteVision) Detect(ctx context.Context, in FrameInput) entity.SignalFrame {
	var frame entity.SignalFrame
	if in.Image != nil {
		frame.PaperDetected = DetectPaper(in.Image)
	}

	result, err := v.breaker.Execute(func() (*entity.InferenceResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := v.client.ProcessFrame(in.StudentID, in.Raw)
		if err != nil {
			return nil, err
		}
		if result.Error != "" {
			return nil, errors.New(result.Error)
		}
		return result, nil
	})
	if err != nil {
		v.log.WithFields(logrus.Fields{
			"student_id": in.StudentID,
			"error":      err.Error(),
		}).Warn("Inference service call failed")
		markUnavailable(&frame, visualKinds...)
		return frame
	}

	applyInference(&frame, result)
	return frame
}

func applyInference(frame *entity.SignalFrame, result *entity.InferenceResult) {
	if result.Identity != nil {
		frame.IdentityVerified = result.Identity.Verified
		frame.IdentityScore = result.Identity.Score
		frame.IdentityMessage = result.Identity.Message
	} else {
		markUnavailable(frame, entity.SignalIdentity)
	}

	if result.FaceCount != nil {
		frame.FaceCount = *result.FaceCount
	} else {
		markUnavailable(frame, entity.SignalMultipleFaces)
	}

	switch {
	case result.HeadPose != nil:
		pose := *result.HeadPose
		frame.HeadPose = &pose
	case result.FaceCount != nil && *result.FaceCount == 0:
		// no face, nothing to track
	default:
		markUnavailable(frame, entity.SignalMovement)
	}

	if result.Objects != nil {
		frame.DetectedObjects = append([]string(nil), (*result.Objects)...)
	} else {
		markUnavailable(frame, entity.SignalObjects)
	}

	if result.Paper != nil {
		frame.PaperDetected = frame.PaperDetected || *result.Paper
	}
}
