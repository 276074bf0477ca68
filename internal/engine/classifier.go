package engine

import (
	"ProctorGuard/internal/entity"
	"fmt"
	"math"
	"strings"
)

const (
	MessageNoFace              = "no face for tracking"
	MessageTrackingInitialized = "tracking initialized"
	MessageNormalMovement      = "normal movement"
	MessageNoVoice             = "no voice activity"

	labelCellPhone = "cell phone"
	labelPaper     = "paper (heuristic)"
)

type Classifier struct {
	thresholds entity.Thresholds
}

func NewClassifier(thresholds entity.Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

func unavailable(kind entity.SignalKind) entity.SignalOutcome {
	return entity.SignalOutcome{
		Message: fmt.Sprintf("%s detector unavailable", strings.ReplaceAll(string(kind), "_", " ")),
	}
}

// Movement applies the head-pose hysteresis. The pose is stored on every branch
// that has one, including the first frame which only initializes tracking.
func (c *Classifier) Movement(state *entity.SessionState, frame entity.SignalFrame) entity.SignalOutcome {
	if frame.IsUnavailable(entity.SignalMovement) {
		state.MovementCounter = 0
		return unavailable(entity.SignalMovement)
	}

	pose := frame.HeadPose
	if pose == nil {
		state.MovementCounter = 0
		return entity.SignalOutcome{Message: MessageNoFace}
	}

	current := *pose
	defer func() { state.LastHeadPose = &current }()

	if state.LastHeadPose == nil {
		return entity.SignalOutcome{Message: MessageTrackingInitialized}
	}

	reason, exceeded := c.deviation(current)
	if !exceeded {
		state.MovementCounter = 0
		return entity.SignalOutcome{Message: MessageNormalMovement}
	}

	state.MovementCounter++
	limit := c.thresholds.MovementFrameLimit
	if state.MovementCounter >= limit {
		return entity.SignalOutcome{
			Triggered: true,
			Active:    true,
			Message:   fmt.Sprintf("alert: prolonged abnormal movement (%s)", reason),
		}
	}

	return entity.SignalOutcome{
		Active:  true,
		Message: fmt.Sprintf("abnormal movement (%s), counter: %d/%d", reason, state.MovementCounter, limit),
	}
}

// deviation checks yaw, then pitch, then roll. The first limit exceeded names
// the reason.
func (c *Classifier) deviation(pose entity.HeadPose) (string, bool) {
	switch {
	case math.Abs(pose.Yaw) > c.thresholds.YawDegrees:
		return fmt.Sprintf("head turned sideways, yaw: %.1f deg", pose.Yaw), true
	case math.Abs(pose.Pitch) > c.thresholds.PitchDegrees:
		return fmt.Sprintf("head tilted, pitch: %.1f deg", pose.Pitch), true
	case math.Abs(pose.Roll) > c.thresholds.RollDegrees:
		return fmt.Sprintf("head tilted sideways, roll: %.1f deg", pose.Roll), true
	default:
		return "", false
	}
}

// Voice applies the voice hysteresis. Any frame without confirmed voice,
// failures included, resets the streak.
func (c *Classifier) Voice(state *entity.SessionState, frame entity.SignalFrame) entity.SignalOutcome {
	voice := frame.Voice
	if frame.IsUnavailable(entity.SignalVoice) {
		state.VoiceCounter = 0
		return unavailable(entity.SignalVoice)
	}

	if !voice.Ok() {
		state.VoiceCounter = 0
		return entity.SignalOutcome{Message: voice.Failure.String()}
	}

	if !voice.Present {
		state.VoiceCounter = 0
		return entity.SignalOutcome{Message: MessageNoVoice}
	}

	state.VoiceCounter++
	limit := c.thresholds.VoiceFrameLimit
	if state.VoiceCounter >= limit {
		return entity.SignalOutcome{
			Triggered: true,
			Active:    true,
			Message:   "alert: unexpected voice detected",
		}
	}

	return entity.SignalOutcome{
		Active:  true,
		Message: fmt.Sprintf("unexpected voice detected, counter: %d/%d", state.VoiceCounter, limit),
	}
}

func (c *Classifier) Identity(frame entity.SignalFrame) entity.SignalOutcome {
	if frame.IsUnavailable(entity.SignalIdentity) {
		return unavailable(entity.SignalIdentity)
	}

	message := frame.IdentityMessage
	if message == "" {
		message = "identity confirmed"
		if !frame.IdentityVerified {
			message = "identity not confirmed"
		}
	}

	return entity.SignalOutcome{
		Triggered: !frame.IdentityVerified,
		Active:    !frame.IdentityVerified,
		Message:   message,
	}
}

func (c *Classifier) MultipleFaces(frame entity.SignalFrame) entity.SignalOutcome {
	if frame.IsUnavailable(entity.SignalMultipleFaces) {
		return unavailable(entity.SignalMultipleFaces)
	}

	if frame.FaceCount > 1 {
		return entity.SignalOutcome{
			Triggered: true,
			Active:    true,
			Message:   fmt.Sprintf("alert: multiple faces detected (%d)", frame.FaceCount),
		}
	}

	return entity.SignalOutcome{Message: fmt.Sprintf("%d face(s) detected", frame.FaceCount)}
}

func (c *Classifier) Objects(frame entity.SignalFrame) entity.SignalOutcome {
	if frame.IsUnavailable(entity.SignalObjects) {
		return unavailable(entity.SignalObjects)
	}

	var phone bool
	var targets []string
	for _, label := range frame.DetectedObjects {
		if !c.thresholds.IsTargetObject(label) {
			continue
		}
		targets = append(targets, label)
		if label == labelCellPhone {
			phone = true
		}
	}

	paper := frame.PaperDetected
	triggered := len(targets) > 0 || paper

	var message string
	switch {
	case phone && paper:
		message = "alert: phone and paper detected"
	case phone:
		message = "alert: phone detected"
	case paper:
		message = "alert: suspicious paper detected (heuristic)"
	case len(targets) > 0:
		message = fmt.Sprintf("alert: suspect objects detected: %s", strings.Join(targets, ", "))
	case len(frame.DetectedObjects) > 0:
		message = fmt.Sprintf("objects detected: %s", strings.Join(frame.DetectedObjects, ", "))
	default:
		message = "no suspect object detected"
	}

	return entity.SignalOutcome{
		Triggered: triggered,
		Active:    triggered,
		Message:   message,
	}
}

// ObjectLabels returns the detected labels with the paper heuristic appended
// the way callers display them.
func ObjectLabels(frame entity.SignalFrame) []string {
	labels := make([]string, 0, len(frame.DetectedObjects)+1)
	labels = append(labels, frame.DetectedObjects...)
	if frame.PaperDetected {
		labels = append(labels, labelPaper)
	}
	return labels
}
