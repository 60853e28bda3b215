package dummydb

import (
	"context"
	"time"

	"github.com/pepschool/obshub/core/access"
)

type accessLogRepository struct {
	db *accessLogTable

	// FailWrites forces AppendAccessLog to error; tests use it to exercise
	// the gate's best-effort audit semantics.
	FailWrites error
}

var _ access.LogRepository = (*accessLogRepository)(nil)

func NewAccessLogRepository(db *DB) *accessLogRepository {
	return &accessLogRepository{db: db.accessLog}
}

func (repo *accessLogRepository) AppendAccessLog(_ context.Context, entry access.LogEntry) error {
	if repo.FailWrites != nil {
		return repo.FailWrites
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	entry.ID = int64(len(repo.db.table) + 1)
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	repo.db.table = append(repo.db.table, entry)
	return nil
}

func (repo *accessLogRepository) QueryAccessLogs(_ context.Context) ([]access.LogEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	out := make([]access.LogEntry, len(repo.db.table))
	copy(out, repo.db.table)
	return out, nil
}
