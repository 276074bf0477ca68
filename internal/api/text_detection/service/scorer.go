package textDetectionService

import (
	"ProctorGuard/internal/entity"
	"ProctorGuard/pkg/gemini"
	"ProctorGuard/pkg/nlp"
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sync"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	FlagLongSimilarSection = "long section with strong conceptual similarity detected"
	FlagSuspiciousKeywords = "suspicious plagiarism keywords found"

	longTextThreshold = 200
)

var plagiarismKeywords = regexp.MustCompile(`(?i)\b(copy|paste|source externe)\b`)

// aiPhrases are boilerplate sentences typical of generated text. Matching is
// case and accent insensitive.
var aiPhrases = []string{
	"en tant que grand modèle linguistique",
	"je suis un modèle de langage entraîné par google",
	"je n'ai pas d'expériences personnelles",
	"mon objectif est de vous aider",
	"je suis un programme informatique",
	"as a large language model",
	"i am a language model trained by",
	"i don't have personal experiences",
	"as an ai language model",
}

// SimulatedScorer draws scores from a seeded generator and raises them when the
// text carries plagiarism keywords or generated-text phrases.
type SimulatedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedScorer(seed uint64) *SimulatedScorer {
	return &SimulatedScorer{rng: rand.New(rand.NewPCG(seed, seed^0x7e47))}
}

func (s *SimulatedScorer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *SimulatedScorer) ScorePlagiarism(_ context.Context, text string) (entity.PlagiarismResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := entity.PlagiarismResult{
		Score: s.uniform(0, 0.9),
		Flags: []string{},
	}

	if utf8.RuneCountInString(text) > longTextThreshold && s.rng.Float64() < 0.3 {
		result.Flags = append(result.Flags, FlagLongSimilarSection)
		result.Score = max(result.Score, s.uniform(0.5, 0.95))
	}
	if plagiarismKeywords.MatchString(text) {
		result.Flags = append(result.Flags, FlagSuspiciousKeywords)
		result.Score = max(result.Score, s.uniform(0.6, 0.8))
	}

	return result, nil
}

func (s *SimulatedScorer) ScoreAIContent(_ context.Context, text string) (entity.AIContentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := s.uniform(0, 0.9)
	if containsAIPhrase(text) {
		score = max(score, s.uniform(0.7, 0.99))
	}

	return entity.AIContentResult{Score: score}, nil
}

func containsAIPhrase(text string) bool {
	for _, phrase := range aiPhrases {
		if nlp.ContainsKeyword(text, phrase) {
			return true
		}
	}
	return false
}

const aiContentPrompt = `You grade student submissions for machine generated content.
Reply with a JSON object {"score": <number between 0 and 1>} where 1 means certainly generated by an AI model.
Only reply with the JSON object.`

// GeminiScorer asks Gemini for an AI content score. Any failure falls back to
// the wrapped scorer so a submission is always scored.
type GeminiScorer struct {
	client   gemini.IGemini
	fallback AIContentScorer
	log      *logrus.Logger
}

func NewGeminiScorer(log *logrus.Logger, client gemini.IGemini, fallback AIContentScorer) *GeminiScorer {
	return &GeminiScorer{
		client:   client,
		fallback: fallback,
		log:      log,
	}
}

func (g *GeminiScorer) ScoreAIContent(ctx context.Context, text string) (entity.AIContentResult, error) {
	score, err := g.score(ctx, text)
	if err != nil {
		g.log.WithError(err).Warn("Gemini scoring failed, using fallback scorer")
		return g.fallback.ScoreAIContent(ctx, text)
	}
	return entity.AIContentResult{Score: score}, nil
}

func (g *GeminiScorer) score(ctx context.Context, text string) (float64, error) {
	raw, err := g.client.GenerateText(ctx, aiContentPrompt, text)
	if err != nil {
		return 0, err
	}

	var reply struct {
		Score *float64 `json:"score"`
	}
	if err := jsoniter.UnmarshalFromString(raw, &reply); err != nil {
		return 0, fmt.Errorf("decode gemini reply: %w", err)
	}
	if reply.Score == nil {
		return 0, fmt.Errorf("gemini reply has no score: %q", raw)
	}

	return min(max(*reply.Score, 0), 1), nil
}
