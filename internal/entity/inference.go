package entity

// InferenceResult is the reply of the remote vision service for one frame.
// Missing sections mean the service could not run that detector.
type InferenceResult struct {
	Identity  *InferenceIdentity `json:"identity,omitempty"`
	HeadPose  *HeadPose          `json:"head_pose,omitempty"`
	FaceCount *int               `json:"face_count,omitempty"`
	Objects   *[]string          `json:"objects,omitempty"`
	Paper     *bool              `json:"paper,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type InferenceIdentity struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
	Message  string  `json:"message"`
}

// InferenceRequest is the envelope sent ahead of a frame.
type InferenceRequest struct {
	StudentID string `json:"student_id"`
	Frame     string `json:"frame"`
}
