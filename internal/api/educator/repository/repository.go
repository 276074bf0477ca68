package educatorRepository

import (
	"ProctorGuard/internal/entity"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
	EnsureSchema(ctx context.Context) error
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Alerts:   &alertsRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

// EnsureSchema creates the detections table for the connected driver.
func (r *repository) EnsureSchema(ctx context.Context) error {
	schema := querySchemaSQLite
	if r.DB.DriverName() == "postgres" {
		schema = querySchemaPostgres
	}

	for _, stmt := range []string{schema, queryTimestampIndex} {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure detections schema: %w", err)
		}
	}

	r.log.WithField("driver", r.DB.DriverName()).Info("Detections schema ready")
	return nil
}

type Client struct {
	Alerts interface {
		Insert(ctx context.Context, record entity.AlertRecord) (int64, error)
		ListRecent(ctx context.Context, limit int) ([]entity.AlertRecord, error)
	}

	Commit   func() error
	Rollback func() error
}

type alertsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
