package textdetection

// MaxTextLength bounds a single submission, in bytes.
const MaxTextLength = 200_000

type TextDetectionRequest struct {
	Text      string `json:"text"`
	StudentID string `json:"student_id" validate:"omitempty,max=128"`
}

type TextDetectionResponse struct {
	PlagiarismScore float64  `json:"plagiarism_score"`
	PlagiarismFlags []string `json:"plagiarism_flags"`
	AIContentScore  float64  `json:"ai_content_score"`
	AlertLevel      string   `json:"alert_level"`
	Message         string   `json:"message"`
}
