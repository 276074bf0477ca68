package educatorService

import (
	educatorRepository "ProctorGuard/internal/api/educator/repository"
	"ProctorGuard/internal/entity"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/metrics"
	"ProctorGuard/pkg/redis"
	"ProctorGuard/pkg/s3"
	"ProctorGuard/pkg/smtp"
	"context"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	appendQueueSize = 256
	appendTimeout   = 15 * time.Second
)

// IAlertAppender stores alert records off the request path. Append never
// blocks and never reports failure to the caller.
type IAlertAppender interface {
	Append(ctx context.Context, record entity.AlertRecord)
	Close()
}

type appendJob struct {
	requestID string
	record    entity.AlertRecord
}

type alertAppender struct {
	log          *logrus.Logger
	educatorRepo educatorRepository.Repository
	s3Client     s3.ItfS3
	redisClient  redis.IRedis
	smtpMailer   smtp.ItfSmtp

	mu     sync.RWMutex
	closed bool
	queue  chan appendJob
	done   chan struct{}
}

// NewAlertAppender starts the single writer goroutine. s3Client, redisClient
// and smtpMailer may be nil.
func NewAlertAppender(
	log *logrus.Logger,
	educatorRepo educatorRepository.Repository,
	s3Client s3.ItfS3,
	redisClient redis.IRedis,
	smtpMailer smtp.ItfSmtp,
) IAlertAppender {
	a := &alertAppender{
		log:          log,
		educatorRepo: educatorRepo,
		s3Client:     s3Client,
		redisClient:  redisClient,
		smtpMailer:   smtpMailer,
		queue:        make(chan appendJob, appendQueueSize),
		done:         make(chan struct{}),
	}

	go a.run()

	return a
}

func (a *alertAppender) Append(ctx context.Context, record entity.AlertRecord) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	metrics.RecordAlert(string(record.Type), string(record.AlertLevel))

	job := appendJob{
		requestID: contextPkg.GetRequestID(ctx),
		record:    record,
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.drop(job, "closed")
		return
	}

	select {
	case a.queue <- job:
	default:
		a.drop(job, "queue_full")
	}
}

func (a *alertAppender) drop(job appendJob, stage string) {
	metrics.RecordAlertLogFailure(stage)
	a.log.WithFields(logrus.Fields{
		"request_id": job.requestID,
		"student_id": job.record.StudentID,
		"stage":      stage,
	}).Error("Alert record dropped")
}

// Close stops accepting records and waits for the queued ones to be written.
func (a *alertAppender) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
}

func (a *alertAppender) run() {
	defer close(a.done)

	for job := range a.queue {
		a.write(job)
	}
}

func (a *alertAppender) write(job appendJob) {
	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), job.requestID), appendTimeout)
	defer cancel()

	record := job.record
	fields := logrus.Fields{
		"request_id": job.requestID,
		"student_id": record.StudentID,
		"type":       record.Type,
	}

	if len(record.Evidence) > 0 && a.s3Client != nil {
		key, err := a.s3Client.UploadEvidence(ctx, record.StudentID, record.Evidence, "image/jpeg")
		if err != nil {
			metrics.RecordAlertLogFailure("evidence")
			a.log.WithFields(fields).WithError(err).Warn("Failed to archive evidence frame")
		} else {
			record.EvidenceKey = key
		}
	}

	repo, err := a.educatorRepo.NewClient(false)
	if err != nil {
		metrics.RecordAlertLogFailure("insert")
		a.log.WithFields(fields).WithError(err).Error("Failed to create repository client")
		return
	}

	record.ID, err = repo.Alerts.Insert(ctx, record)
	if err != nil {
		metrics.RecordAlertLogFailure("insert")
		a.log.WithFields(fields).WithError(err).Error("Failed to persist alert record")
		return
	}

	a.publish(ctx, fields, record)
	a.notify(fields, record)
}

func (a *alertAppender) publish(ctx context.Context, fields logrus.Fields, record entity.AlertRecord) {
	if a.redisClient == nil {
		return
	}

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(toAlertResponse(record, ""))
	if err != nil {
		metrics.RecordAlertLogFailure("publish")
		a.log.WithFields(fields).WithError(err).Error("Failed to encode alert for live feed")
		return
	}

	if err := a.redisClient.PublishAlert(ctx, payload); err != nil {
		metrics.RecordAlertLogFailure("publish")
		a.log.WithFields(fields).WithError(err).Warn("Failed to publish alert")
	}
}

func (a *alertAppender) notify(fields logrus.Fields, record entity.AlertRecord) {
	if a.smtpMailer == nil || record.AlertLevel != entity.SeverityHigh {
		return
	}

	subject := fmt.Sprintf("[ProctorGuard] high alert for %s", record.StudentID)
	body := fmt.Sprintf("Student: %s\nType: %s\nMessage: %s\nTime: %s\n",
		record.StudentID, record.Type, record.Message, record.Timestamp.Format(time.RFC3339))
	if record.EvidenceKey != "" {
		body += fmt.Sprintf("Evidence: %s\n", record.EvidenceKey)
	}

	if err := a.smtpMailer.SendAlert(subject, body); err != nil {
		metrics.RecordAlertLogFailure("notify")
		a.log.WithFields(fields).WithError(err).Warn("Failed to email educators")
	}
}
