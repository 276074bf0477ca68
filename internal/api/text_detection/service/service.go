package textDetectionService

import (
	educatorService "ProctorGuard/internal/api/educator/service"
	textdetection "ProctorGuard/internal/api/text_detection"
	"ProctorGuard/internal/entity"
	"context"

	"github.com/sirupsen/logrus"
)

type ITextDetectionService interface {
	DetectText(ctx context.Context, req textdetection.TextDetectionRequest) (textdetection.TextDetectionResponse, error)
}

type PlagiarismScorer interface {
	ScorePlagiarism(ctx context.Context, text string) (entity.PlagiarismResult, error)
}

type AIContentScorer interface {
	ScoreAIContent(ctx context.Context, text string) (entity.AIContentResult, error)
}

type RiskClassifier interface {
	TextRisk(plagiarismScore, aiScore float64) entity.Severity
}

type textDetectionService struct {
	log        *logrus.Logger
	plagiarism PlagiarismScorer
	aiContent  AIContentScorer
	risk       RiskClassifier
	appender   educatorService.IAlertAppender
}

func NewTextDetectionService(
	log *logrus.Logger,
	plagiarism PlagiarismScorer,
	aiContent AIContentScorer,
	risk RiskClassifier,
	appender educatorService.IAlertAppender,
) ITextDetectionService {
	return &textDetectionService{
		log:        log,
		plagiarism: plagiarism,
		aiContent:  aiContent,
		risk:       risk,
		appender:   appender,
	}
}
