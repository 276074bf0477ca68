package entity

type SignalKind string

const (
	SignalIdentity      SignalKind = "identity"
	SignalMovement      SignalKind = "movement"
	SignalMultipleFaces SignalKind = "multiple_faces"
	SignalObjects       SignalKind = "objects"
	SignalVoice         SignalKind = "voice"
)

// SignalKinds lists every signal in fusion order.
var SignalKinds = []SignalKind{
	SignalIdentity,
	SignalMovement,
	SignalMultipleFaces,
	SignalObjects,
	SignalVoice,
}

type HeadPose struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

type VoiceFailure uint8

const (
	VoiceOK VoiceFailure = iota
	VoiceUnclear
	VoiceServiceError
	VoiceCaptureError
	VoiceDecodeError
	VoiceNoInput
)

var voiceFailureMap = map[VoiceFailure]string{
	VoiceOK:           "ok",
	VoiceUnclear:      "no clear voice activity",
	VoiceServiceError: "voice service error",
	VoiceCaptureError: "audio capture error",
	VoiceDecodeError:  "audio decode error",
	VoiceNoInput:      "no audio input",
}

func (v VoiceFailure) String() string {
	return voiceFailureMap[v]
}

// VoiceOutcome is Ok(Present) when Failure is VoiceOK, Err(Failure) otherwise.
type VoiceOutcome struct {
	Present bool         `json:"present"`
	Failure VoiceFailure `json:"failure"`
}

func VoiceOk(present bool) VoiceOutcome {
	return VoiceOutcome{Present: present, Failure: VoiceOK}
}

func VoiceErr(kind VoiceFailure) VoiceOutcome {
	return VoiceOutcome{Failure: kind}
}

func (v VoiceOutcome) Ok() bool {
	return v.Failure == VoiceOK
}

// SignalFrame is one decoded frame worth of measurements. It is never mutated
// after the SignalSource hands it over.
type SignalFrame struct {
	IdentityVerified bool                `json:"identity_verified"`
	IdentityScore    float64             `json:"identity_score"`
	IdentityMessage  string              `json:"identity_message"`
	HeadPose         *HeadPose           `json:"head_pose,omitempty"`
	FaceCount        int                 `json:"face_count"`
	DetectedObjects  []string            `json:"detected_objects"`
	PaperDetected    bool                `json:"paper_detected"`
	Voice            VoiceOutcome        `json:"voice"`
	Unavailable      map[SignalKind]bool `json:"unavailable,omitempty"`
}

func (f SignalFrame) IsUnavailable(kind SignalKind) bool {
	return f.Unavailable[kind]
}
