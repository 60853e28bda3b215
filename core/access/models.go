package access

import (
	"context"
	"time"
)

// Denial reasons, recorded verbatim in the audit log.
const (
	ReasonInvalidDomain   = "invalid_domain"
	ReasonNotInDirectory  = "not_in_users_collection"
	ReasonMissingRole     = "missing_role"
	ReasonValidationError = "validation_error"
)

// Statuses of a Decision.
const (
	StatusAuthorized = "authorized"
	StatusDenied     = "denied"
)

// Identity is a freshly authenticated principal as reported by the identity
// provider. ID is the provider-assigned stable uid; it may be empty on the
// legacy call path, in which case the directory is queried by email.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	UserAgent   string `json:"-"`
}

// Decision is the terminal outcome of one gate evaluation. A Denied decision
// is a normal modeled outcome, not an error; Reason is set only when denied
// and is for audit/admin visibility, never shown to the denied user.
type Decision struct {
	Status string `json:"status"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (d Decision) Authorized() bool {
	return d.Status == StatusAuthorized
}

// LogEntry is a write-once audit record of a denied access attempt.
type LogEntry struct {
	ID          int64     `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	PhotoURL    string    `json:"photo_url" db:"photo_url"`
	Reason      string    `json:"reason" db:"reason"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"` // server-assigned, UTC
	UserAgent   string    `json:"user_agent" db:"user_agent"`
}

type (
	// LogRepository persists denied-attempt audit entries. The gate only ever
	// appends; queries exist for admin visibility.
	LogRepository interface {
		AppendAccessLog(ctx context.Context, entry LogEntry) error
		QueryAccessLogs(ctx context.Context) ([]LogEntry, error)
	}

	// Notifier is told about every denied attempt that was successfully
	// recorded. Implementations must not block the gate.
	Notifier interface {
		NotifyDenied(ctx context.Context, entry LogEntry)
	}
)
