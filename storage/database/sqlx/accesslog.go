package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/access"
)

type accessLogRepository struct {
	db *sqlx.DB
}

var _ access.LogRepository = (*accessLogRepository)(nil) // interface compliance check

func NewAccessLogRepository(db *sqlx.DB) access.LogRepository {
	return &accessLogRepository{db: db}
}

func (repo *accessLogRepository) AppendAccessLog(ctx context.Context, entry access.LogEntry) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO access_log (email, display_name, photo_url, reason, timestamp, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.Email, entry.DisplayName, entry.PhotoURL, entry.Reason, entry.Timestamp, entry.UserAgent,
	)
	if err != nil {
		return errors.Wrap(err, "appending access log")
	}
	return nil
}

func (repo *accessLogRepository) QueryAccessLogs(ctx context.Context) ([]access.LogEntry, error) {
	var entries []access.LogEntry
	err := repo.db.SelectContext(ctx, &entries, `SELECT * FROM access_log ORDER BY timestamp DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying access logs")
	}
	for i := range entries {
		entries[i].Timestamp = entries[i].Timestamp.UTC()
	}
	return entries, nil
}
