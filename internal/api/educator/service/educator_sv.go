package educatorService

import (
	"ProctorGuard/internal/api/educator"
	"ProctorGuard/internal/entity"
	contextPkg "ProctorGuard/pkg/context"
	jwtPkg "ProctorGuard/pkg/jwt"
	"ProctorGuard/pkg/response"
	"context"
	"crypto/subtle"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const accessTokenTTL = 12 * time.Hour

func (s *educatorService) ListAlerts(ctx context.Context) ([]educator.AlertResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.educatorRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, response.Wrap(educator.ErrListAlerts, err)
	}

	records, err := repo.Alerts.ListRecent(ctx, educator.RecentAlertsLimit)
	if err != nil {
		return nil, response.Wrap(educator.ErrListAlerts, err)
	}

	alerts := make([]educator.AlertResponse, 0, len(records))
	for _, record := range records {
		alerts = append(alerts, toAlertResponse(record, s.evidenceURL(requestID, record.EvidenceKey)))
	}

	return alerts, nil
}

func (s *educatorService) evidenceURL(requestID, key string) string {
	if key == "" || s.s3Client == nil {
		return ""
	}

	url, err := s.s3Client.PresignUrl(key)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to presign evidence url")
		return ""
	}
	return url
}

func (s *educatorService) Login(ctx context.Context, req educator.LoginRequest) (educator.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if !s.account.Enabled() {
		return educator.LoginResponse{}, educator.ErrLoginDisabled
	}

	sameUser := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.account.Username)) == 1
	if err := s.bcrypt.ComparePassword(s.account.PasswordHash, req.Password); err != nil || !sameUser {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Educator login rejected")
		return educator.LoginResponse{}, educator.ErrInvalidCredentials
	}

	token, expiresAt, err := jwtPkg.Sign(s.account.Username, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign educator token")
		return educator.LoginResponse{}, response.Wrap(educator.ErrIssueToken, err)
	}

	return educator.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *educatorService) SubscribeAlerts(ctx context.Context) (<-chan []byte, func() error, error) {
	if s.redisClient == nil {
		return nil, nil, educator.ErrLiveFeedUnavailable
	}

	feed, closeFn, err := s.redisClient.SubscribeAlerts(ctx)
	if err != nil {
		return nil, nil, response.Wrap(educator.ErrLiveFeedUnavailable, err)
	}
	return feed, closeFn, nil
}

func toAlertResponse(record entity.AlertRecord, evidenceURL string) educator.AlertResponse {
	details := record.Details
	if len(details) == 0 {
		details = []byte("null")
	} else if !jsoniter.Valid(details) {
		details, _ = jsoniter.Marshal(string(record.Details))
	}

	return educator.AlertResponse{
		ID:          record.ID,
		StudentID:   record.StudentID,
		Type:        string(record.Type),
		AlertLevel:  string(record.AlertLevel),
		Message:     record.Message,
		Details:     details,
		Timestamp:   record.Timestamp,
		EvidenceURL: evidenceURL,
	}
}
