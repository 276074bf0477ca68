package educatorRepository

import (
	"ProctorGuard/internal/entity"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := New(db, log)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestAlerts_InsertAndListRecent(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		id, err := client.Alerts.Insert(ctx, entity.AlertRecord{
			StudentID:  "student_A_123",
			Type:       entity.AlertKindText,
			AlertLevel: entity.SeverityMedium,
			Message:    fmt.Sprintf("record %d", i),
			Details:    []byte(`{"plagiarism":{"score":0.5,"flags":[]},"ai_content":{"score":0.1}}`),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, int64(i+1), id)
	}

	records, err := client.Alerts.ListRecent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "record 2", records[0].Message)
	require.Equal(t, "record 0", records[2].Message)
	require.Equal(t, entity.SeverityMedium, records[0].AlertLevel)
	require.JSONEq(t, `{"plagiarism":{"score":0.5,"flags":[]},"ai_content":{"score":0.1}}`, string(records[0].Details))
	require.True(t, records[0].Timestamp.Equal(base.Add(2*time.Minute)))
	require.Empty(t, records[0].EvidenceKey)
}

func TestAlerts_ListRecentLimitAndTies(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	client, err := repo.NewClient(true)
	require.NoError(t, err)

	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		_, err := client.Alerts.Insert(ctx, entity.AlertRecord{
			StudentID:   "s",
			Type:        entity.AlertKindVisualAudio,
			AlertLevel:  entity.SeverityHigh,
			Message:     fmt.Sprintf("%d", i),
			Details:     []byte(`{}`),
			EvidenceKey: "evidence/s/frame.jpg",
			Timestamp:   at,
		})
		require.NoError(t, err)
	}
	require.NoError(t, client.Commit())

	reader, err := repo.NewClient(false)
	require.NoError(t, err)

	records, err := reader.Alerts.ListRecent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, records, 50)
	require.Equal(t, "59", records[0].Message)
	require.Equal(t, "10", records[49].Message)
	require.Equal(t, "evidence/s/frame.jpg", records[0].EvidenceKey)
}
