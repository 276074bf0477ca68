package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrNotConfigured = errors.New("openai api key not configured")

type IChatGPT interface {
	AnswerIntegrityQuestion(ctx context.Context, question string) (string, error)
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT() (IChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return &chatGPTService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

const integritySystemPrompt = `You are an academic integrity assistant for students sitting remote exams.

Rules:
- Answer in the language of the question, in 2 or 3 short sentences
- Only talk about academic integrity: plagiarism, citation, paraphrasing, exam rules, exam stress
- Never help with the content of an exam question
- If the question is off topic, say so politely and invite a question about academic integrity`

func (c *chatGPTService) AnswerIntegrityQuestion(ctx context.Context, question string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: integritySystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: question},
			},
			Temperature: 0.3,
			MaxTokens:   150,
		},
	)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from ChatGPT")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
