package educatorRepository

import (
	"ProctorGuard/internal/entity"
	contextPkg "ProctorGuard/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AlertDB struct {
	ID          int64          `db:"id"`
	StudentID   string         `db:"student_id"`
	Type        string         `db:"type"`
	AlertLevel  sql.NullString `db:"alert_level"`
	Message     sql.NullString `db:"message"`
	Details     sql.NullString `db:"details"`
	EvidenceKey sql.NullString `db:"evidence_key"`
	Timestamp   time.Time      `db:"timestamp"`
}

func (a AlertDB) toEntity() entity.AlertRecord {
	record := entity.AlertRecord{
		ID:          a.ID,
		StudentID:   a.StudentID,
		Type:        entity.AlertKind(a.Type),
		AlertLevel:  entity.Severity(a.AlertLevel.String),
		Message:     a.Message.String,
		EvidenceKey: a.EvidenceKey.String,
		Timestamp:   a.Timestamp,
	}
	if a.Details.Valid {
		record.Details = []byte(a.Details.String)
	}
	return record
}

func (r *alertsRepository) Insert(ctx context.Context, record entity.AlertRecord) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	argsKV := map[string]interface{}{
		"student_id":   record.StudentID,
		"type":         string(record.Type),
		"alert_level":  string(record.AlertLevel),
		"message":      record.Message,
		"details":      string(record.Details),
		"evidence_key": sql.NullString{String: record.EvidenceKey, Valid: record.EvidenceKey != ""},
		"timestamp":    timestamp.UTC(),
	}

	query, args, err := sqlx.Named(queryInsertAlert, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Insert")
		return 0, err
	}
	query = r.q.Rebind(query)

	var id int64
	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"student_id": record.StudentID,
			"error":      err.Error(),
		}).Error("Database error when inserting alert")
		return 0, err
	}

	return id, nil
}

func (r *alertsRepository) ListRecent(ctx context.Context, limit int) ([]entity.AlertRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryListRecentAlerts, map[string]interface{}{"limit": limit})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for ListRecent")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []AlertDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing alerts")
		return nil, err
	}

	records := make([]entity.AlertRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}

	return records, nil
}
