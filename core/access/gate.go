package access

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/user"
)

// Gate decides, once per login event, whether an authenticated identity may
// enter the application and what role it holds. It is a pure value producer:
// callers own the resulting Decision and any session built from it.
type Gate struct {
	domain   string // institutional email domain suffix, with leading "@"
	users    user.Repository
	logs     LogRepository
	notifier Notifier // optional
	logger   core.Logger
}

func NewGate(conf *core.Config, users user.Repository, logs LogRepository, logger core.Logger) *Gate {
	return &Gate{
		domain: strings.ToLower(conf.AllowedEmailDomain),
		users:  users,
		logs:   logs,
		logger: logger,
	}
}

// SetNotifier attaches a denied-attempt notifier. Notification is fired only
// after the audit entry was recorded, mirroring the store-trigger semantics
// of the alerting pipeline.
func (g *Gate) SetNotifier(n Notifier) {
	g.notifier = n
}

// Evaluate runs the authorization steps strictly in order, short-circuiting
// to a Denied decision on the first failure:
//
//	1. domain check
//	2. directory lookup (by uid; by email on the legacy path)
//	3. role check
//
// Every Denied outcome appends exactly one audit entry before returning.
// A store fault during the lookup is normalized to Denied(validation_error);
// it never escapes as an error.
func (g *Gate) Evaluate(ctx context.Context, idt Identity) Decision {
	if !strings.HasSuffix(strings.ToLower(idt.Email), g.domain) {
		return g.deny(ctx, idt, ReasonInvalidDomain)
	}

	var usr user.User
	var err error
	if idt.ID != "" {
		usr, err = g.users.GetUserByID(ctx, idt.ID)
	} else {
		// legacy clients do not forward the provider uid
		usr, err = g.users.GetUserByEmail(ctx, strings.ToLower(idt.Email))
	}
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return g.deny(ctx, idt, ReasonNotInDirectory)
		}
		g.logger.Error("access gate: directory lookup failed", err)
		return g.deny(ctx, idt, ReasonValidationError)
	}

	if !usr.HasRole() {
		return g.deny(ctx, idt, ReasonMissingRole)
	}

	return Decision{Status: StatusAuthorized, Role: usr.Role}
}

// deny records the attempt and returns the terminal Denied decision. The
// audit write is best-effort: a single attempt, failure logged and swallowed.
func (g *Gate) deny(ctx context.Context, idt Identity, reason string) Decision {
	entry := LogEntry{
		Email:       idt.Email,
		DisplayName: idt.DisplayName,
		PhotoURL:    idt.PhotoURL,
		Reason:      reason,
		Timestamp:   time.Now().UTC(),
		UserAgent:   idt.UserAgent,
	}
	if err := g.logs.AppendAccessLog(ctx, entry); err != nil {
		g.logger.Error("access gate: appending access log", errors.Wrap(err, "appending access log"))
	} else if g.notifier != nil {
		g.notifier.NotifyDenied(ctx, entry)
	}
	return Decision{Status: StatusDenied, Reason: reason}
}
