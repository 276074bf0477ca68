package assistantService

import (
	"ProctorGuard/internal/api/assistant"
	"ProctorGuard/pkg/openai"
	"context"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	Ask(ctx context.Context, req assistant.AskRequest) (assistant.AskResponse, error)
}

type assistantService struct {
	log  *logrus.Logger
	chat openai.IChatGPT
}

// NewAssistantService takes a nil chat client when no OpenAI key is set.
// Questions outside the keyword table then get the fixed fallback answer.
func NewAssistantService(log *logrus.Logger, chat openai.IChatGPT) IAssistantService {
	return &assistantService{
		log:  log,
		chat: chat,
	}
}
