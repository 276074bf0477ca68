package monitoring

import "ProctorGuard/internal/entity"

type RealtimeRequest struct {
	// Image is a base64 PNG or JPEG, optionally as a data URL.
	Image string `json:"image"`
	// Audio is base64 mono 16-bit PCM at 44.1 kHz.
	Audio     string `json:"audio"`
	StudentID string `json:"student_id" validate:"omitempty,max=128"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
}

type RealtimeResponse struct {
	SessionID string `json:"session_id"`

	IdentityVerified bool    `json:"identity_verified"`
	IdentityScore    float64 `json:"identity_score"`
	IdentityMessage  string  `json:"identity_message"`

	AbnormalMovementDetected bool             `json:"abnormal_movement_detected"`
	MovementMessage          string           `json:"movement_message"`
	HeadPose                 *entity.HeadPose `json:"head_pose"`

	MultipleFacesDetected bool   `json:"multiple_faces_detected"`
	MultipleFacesCount    int    `json:"multiple_faces_count"`
	MultipleFacesMessage  string `json:"multiple_faces_message"`

	SuspectObjectsDetected bool     `json:"suspect_objects_detected"`
	ObjectsMessage         string   `json:"objects_message"`
	DetectedObjectList     []string `json:"detected_object_list"`

	UnexpectedVoiceDetected bool   `json:"unexpected_voice_detected"`
	VoiceMessage            string `json:"voice_message"`

	OverallAlert        bool   `json:"overall_alert"`
	OverallAlertMessage string `json:"overall_alert_message"`
	AlertLevel          string `json:"alert_level"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	StudentID string `json:"student_id" validate:"omitempty,max=128"`
	// Teardown drops the session entry instead of zeroing it.
	Teardown bool `json:"teardown"`
}

type ResetResponse struct {
	Status          string `json:"status"`
	SessionsCleared int    `json:"sessions_cleared"`
}
