package entity

type PlagiarismResult struct {
	Score float64  `json:"score"`
	Flags []string `json:"flags"`
}

type AIContentResult struct {
	Score float64 `json:"score"`
}

type TextDetails struct {
	Plagiarism PlagiarismResult `json:"plagiarism"`
	AIContent  AIContentResult  `json:"ai_content"`
}
