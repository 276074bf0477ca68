package assistantService

import (
	"ProctorGuard/internal/api/assistant"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeChat struct {
	answer string
	err    error
	calls  int
}

func (f *fakeChat) AnswerIntegrityQuestion(context.Context, string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func module(resp assistant.AskResponse) string {
	if resp.RecommendedModule == nil {
		return ""
	}
	return *resp.RecommendedModule
}

func TestAsk_ContextTakesPriority(t *testing.T) {
	t.Parallel()

	svc := NewAssistantService(quietLogger(), nil)
	resp, err := svc.Ask(context.Background(), assistant.AskRequest{
		Question: "how do I cite a reference?",
		Context:  assistant.ContextAudioAlert,
	})
	require.NoError(t, err)
	require.Equal(t, "module_exam_environment", module(resp))
}

func TestAsk_Keywords(t *testing.T) {
	t.Parallel()

	svc := NewAssistantService(quietLogger(), nil)
	cases := map[string]string{
		"C'est quoi le PLAGIAT ?":              "module_plagiat_bases",
		"Comment faire une Référence ?":        "module_citation_guide",
		"comment reformuler un paragraphe":     "module_paraphrase_tips",
		"I feel a lot of anxiete before exams": "module_exam_integrity",
		"j'ai peur":                            "module_stress_management",
		"Anxiété":                              "module_stress_management",
		"can you help me":                      "",
	}

	for question, want := range cases {
		resp, err := svc.Ask(context.Background(), assistant.AskRequest{Question: question})
		require.NoError(t, err, question)
		require.Equal(t, want, module(resp), question)
		require.NotEqual(t, assistant.FallbackAnswer, resp.Answer, question)
	}
}

func TestAsk_Fallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	req := assistant.AskRequest{Question: "bonjour"}

	resp, err := NewAssistantService(quietLogger(), nil).Ask(ctx, req)
	require.NoError(t, err)
	require.Equal(t, assistant.FallbackAnswer, resp.Answer)
	require.Nil(t, resp.RecommendedModule)

	chat := &fakeChat{answer: "Academic integrity means honesty in your work."}
	resp, err = NewAssistantService(quietLogger(), chat).Ask(ctx, req)
	require.NoError(t, err)
	require.Equal(t, chat.answer, resp.Answer)
	require.Nil(t, resp.RecommendedModule)

	broken := &fakeChat{err: errors.New("rate limited")}
	resp, err = NewAssistantService(quietLogger(), broken).Ask(ctx, req)
	require.NoError(t, err)
	require.Equal(t, assistant.FallbackAnswer, resp.Answer)
	require.Equal(t, 1, broken.calls)
}

func TestAsk_Errors(t *testing.T) {
	t.Parallel()

	svc := NewAssistantService(quietLogger(), nil)

	_, err := svc.Ask(context.Background(), assistant.AskRequest{})
	require.ErrorIs(t, err, assistant.ErrEmptyQuestion)

	_, err = svc.Ask(context.Background(), assistant.AskRequest{Question: "q", Context: "movement_alert"})
	require.ErrorIs(t, err, assistant.ErrUnknownContext)
}
