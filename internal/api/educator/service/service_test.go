package educatorService

import (
	"ProctorGuard/internal/api/educator"
	educatorRepository "ProctorGuard/internal/api/educator/repository"
	"ProctorGuard/internal/entity"
	"ProctorGuard/pkg/bcrypt"
	jwtPkg "ProctorGuard/pkg/jwt"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRepo(t *testing.T) educatorRepository.Repository {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := educatorRepository.New(db, quietLogger())
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

type fakeS3 struct {
	mu       sync.Mutex
	uploaded int
	err      error
}

func (f *fakeS3) UploadEvidence(_ context.Context, studentID string, _ []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.uploaded++
	return "evidence/" + studentID + "/frame.jpg", nil
}

func (f *fakeS3) PresignUrl(key string) (string, error) {
	return "https://bucket.example/" + key, nil
}

type fakeRedis struct {
	mu        sync.Mutex
	published [][]byte
}

func (f *fakeRedis) PublishAlert(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, payload)
	return nil
}

func (f *fakeRedis) SubscribeAlerts(context.Context) (<-chan []byte, func() error, error) {
	ch := make(chan []byte)
	return ch, func() error { close(ch); return nil }, nil
}

func (f *fakeRedis) Close() error { return nil }

type fakeMailer struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeMailer) SendAlert(subject string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func TestAlertAppender_WritesPublishesAndNotifies(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	store := &fakeS3{}
	bus := &fakeRedis{}
	mailer := &fakeMailer{}

	appender := NewAlertAppender(quietLogger(), repo, store, bus, mailer)
	appender.Append(context.Background(), entity.AlertRecord{
		StudentID:  "student_A_123",
		Type:       entity.AlertKindVisualAudio,
		AlertLevel: entity.SeverityHigh,
		Message:    "alert: suspicious behavior detected",
		Details:    []byte(`{"overall_alert":true}`),
		Evidence:   []byte{0xff, 0xd8},
	})
	appender.Append(context.Background(), entity.AlertRecord{
		StudentID:  "student_A_123",
		Type:       entity.AlertKindText,
		AlertLevel: entity.SeverityLow,
		Message:    "text detection: plagiarism=0.10, ai=0.20",
		Details:    []byte(`{}`),
	})
	appender.Close()
	appender.Close()

	svc := NewEducatorService(quietLogger(), repo, store, bus, bcrypt.NewWithCost(4), educator.Account{})
	alerts, err := svc.ListAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	var high educator.AlertResponse
	for _, alert := range alerts {
		if alert.AlertLevel == string(entity.SeverityHigh) {
			high = alert
		}
	}
	require.Equal(t, "https://bucket.example/evidence/student_A_123/frame.jpg", high.EvidenceURL)
	require.JSONEq(t, `{"overall_alert":true}`, string(high.Details))

	require.Equal(t, 1, store.uploaded)
	require.Len(t, bus.published, 2)
	require.Len(t, mailer.subjects, 1)
}

func TestAlertAppender_EvidenceFailureStillStores(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	appender := NewAlertAppender(quietLogger(), repo, &fakeS3{err: errors.New("denied")}, nil, nil)
	appender.Append(context.Background(), entity.AlertRecord{
		StudentID:  "s",
		Type:       entity.AlertKindVisualAudio,
		AlertLevel: entity.SeverityHigh,
		Message:    "m",
		Details:    []byte(`{}`),
		Evidence:   []byte{1},
	})
	appender.Close()

	client, err := repo.NewClient(false)
	require.NoError(t, err)
	records, err := client.Alerts.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Empty(t, records[0].EvidenceKey)
}

func TestAlertAppender_AppendAfterCloseIsDropped(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	appender := NewAlertAppender(quietLogger(), repo, nil, nil, nil)
	appender.Close()

	require.NotPanics(t, func() {
		appender.Append(context.Background(), entity.AlertRecord{StudentID: "s", Type: entity.AlertKindText})
	})
}

func TestToAlertResponse_InvalidDetails(t *testing.T) {
	t.Parallel()

	resp := toAlertResponse(entity.AlertRecord{Details: []byte("not json")}, "")
	require.Equal(t, `"not json"`, string(resp.Details))

	resp = toAlertResponse(entity.AlertRecord{}, "")
	require.Equal(t, "null", string(resp.Details))
}

func TestToAlertResponse_DetailsStayRawOnTheWire(t *testing.T) {
	t.Parallel()

	resp := toAlertResponse(entity.AlertRecord{Details: []byte(`{"overall_alert":true}`)}, "")

	encoded, err := jsoniter.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, jsoniter.Unmarshal(encoded, &decoded))
	require.Equal(t, map[string]any{"overall_alert": true}, decoded["details"])
}

func TestSubscribeAlerts_NoRedis(t *testing.T) {
	t.Parallel()

	svc := NewEducatorService(quietLogger(), newRepo(t), nil, nil, bcrypt.NewWithCost(4), educator.Account{})
	_, _, err := svc.SubscribeAlerts(context.Background())
	require.ErrorIs(t, err, educator.ErrLiveFeedUnavailable)
}

func TestLogin(t *testing.T) {
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	hasher := bcrypt.NewWithCost(4)
	hash, err := hasher.HashPassword("correct horse")
	require.NoError(t, err)

	account := educator.Account{Username: "proctor", PasswordHash: hash}
	svc := NewEducatorService(quietLogger(), newRepo(t), nil, nil, hasher, account)
	ctx := context.Background()

	resp, err := svc.Login(ctx, educator.LoginRequest{Username: "proctor", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := jwtPkg.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "proctor", claims.Username)

	_, err = svc.Login(ctx, educator.LoginRequest{Username: "proctor", Password: "wrong"})
	require.ErrorIs(t, err, educator.ErrInvalidCredentials)

	_, err = svc.Login(ctx, educator.LoginRequest{Username: "someone", Password: "correct horse"})
	require.ErrorIs(t, err, educator.ErrInvalidCredentials)

	disabled := NewEducatorService(quietLogger(), newRepo(t), nil, nil, hasher, educator.Account{})
	_, err = disabled.Login(ctx, educator.LoginRequest{Username: "proctor", Password: "correct horse"})
	require.ErrorIs(t, err, educator.ErrLoginDisabled)
}
