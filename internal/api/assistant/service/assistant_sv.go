package assistantService

import (
	"ProctorGuard/internal/api/assistant"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/nlp"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) Ask(ctx context.Context, req assistant.AskRequest) (assistant.AskResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Question == "" {
		return assistant.AskResponse{}, assistant.ErrEmptyQuestion
	}

	if req.Context != "" {
		answer, ok := assistant.ContextAnswers[req.Context]
		if !ok {
			return assistant.AskResponse{}, assistant.ErrUnknownContext
		}
		return toResponse(answer), nil
	}

	if answer, ok := lookup(req.Question); ok {
		return toResponse(answer), nil
	}

	if s.chat != nil {
		text, err := s.chat.AnswerIntegrityQuestion(ctx, req.Question)
		if err == nil && strings.TrimSpace(text) != "" {
			return assistant.AskResponse{Answer: text}, nil
		}
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Chat fallback failed, using fixed answer")
		}
	}

	return assistant.AskResponse{Answer: assistant.FallbackAnswer}, nil
}

func lookup(question string) (assistant.Answer, bool) {
	folded := nlp.Fold(question)
	for _, entry := range assistant.Knowledge {
		for _, keyword := range entry.Keywords {
			if strings.Contains(folded, nlp.Fold(keyword)) {
				return entry.Answer, true
			}
		}
	}
	return assistant.Answer{}, false
}

func toResponse(answer assistant.Answer) assistant.AskResponse {
	resp := assistant.AskResponse{Answer: answer.Text}
	if answer.Module != "" {
		module := answer.Module
		resp.RecommendedModule = &module
	}
	return resp
}
