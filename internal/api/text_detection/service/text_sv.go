package textDetectionService

import (
	textdetection "ProctorGuard/internal/api/text_detection"
	"ProctorGuard/internal/entity"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/response"
	"context"
	"fmt"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const unknownStudent = "unknown"

func (s *textDetectionService) DetectText(ctx context.Context, req textdetection.TextDetectionRequest) (textdetection.TextDetectionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Text == "" {
		return textdetection.TextDetectionResponse{}, textdetection.ErrEmptyText
	}
	if utf8.RuneCountInString(req.Text) > textdetection.MaxTextLength {
		return textdetection.TextDetectionResponse{}, textdetection.ErrTextTooLong
	}

	studentID := req.StudentID
	if studentID == "" {
		studentID = unknownStudent
	}

	plagiarism, err := s.plagiarism.ScorePlagiarism(ctx, req.Text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Plagiarism scoring failed")
		return textdetection.TextDetectionResponse{}, response.Wrap(textdetection.ErrInternalServerError, err)
	}

	aiContent, err := s.aiContent.ScoreAIContent(ctx, req.Text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("AI content scoring failed")
		return textdetection.TextDetectionResponse{}, response.Wrap(textdetection.ErrInternalServerError, err)
	}

	if plagiarism.Flags == nil {
		plagiarism.Flags = []string{}
	}

	severity := s.risk.TextRisk(plagiarism.Score, aiContent.Score)
	message := fmt.Sprintf("text detection: plagiarism=%.2f, ai=%.2f", plagiarism.Score, aiContent.Score)

	details, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(entity.TextDetails{
		Plagiarism: plagiarism,
		AIContent:  aiContent,
	})
	if err != nil {
		return textdetection.TextDetectionResponse{}, response.Wrap(textdetection.ErrInternalServerError, err)
	}

	s.appender.Append(ctx, entity.AlertRecord{
		StudentID:  studentID,
		Type:       entity.AlertKindText,
		AlertLevel: severity,
		Message:    message,
		Details:    details,
	})

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"student_id":  studentID,
		"alert_level": severity,
	}).Debug("Text submission scored")

	return textdetection.TextDetectionResponse{
		PlagiarismScore: plagiarism.Score,
		PlagiarismFlags: plagiarism.Flags,
		AIContentScore:  aiContent.Score,
		AlertLevel:      string(severity),
		Message:         message,
	}, nil
}
