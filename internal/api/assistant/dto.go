package assistant

type AskRequest struct {
	Question string `json:"question" validate:"max=2000"`
	Context  string `json:"context"`
}

type AskResponse struct {
	Answer            string  `json:"answer"`
	RecommendedModule *string `json:"recommended_module"`
}
