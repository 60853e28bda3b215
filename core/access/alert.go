package access

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/user"
)

// AdminNotifier emails every admin in the directory about a recorded
// unauthorized access attempt. Failures are logged, never surfaced: alerting
// must not affect the access decision.
type AdminNotifier struct {
	users   user.Repository
	mailSvc core.EmailService
	logger  core.Logger
	appName string
}

var _ Notifier = (*AdminNotifier)(nil)

func NewAdminNotifier(conf *core.Config, users user.Repository, mailSvc core.EmailService, logger core.Logger) *AdminNotifier {
	return &AdminNotifier{
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
		appName: conf.AppName,
	}
}

func (n *AdminNotifier) NotifyDenied(ctx context.Context, entry LogEntry) {
	admins, err := n.users.QueryUsersByRole(ctx, user.RoleAdmin)
	if err != nil {
		n.logger.Error("access alert: querying admins", errors.Wrap(err, "querying admins"))
		return
	}

	to := make([]mail.Address, 0, len(admins))
	for _, adm := range admins {
		if adm.Email != "" {
			to = append(to, mail.Address{Name: adm.DisplayName, Address: adm.Email})
		}
	}
	if len(to) == 0 {
		n.logger.Warn("access alert: no admin emails found")
		return
	}

	body := fmt.Sprintf(
		"An unauthorized user attempted to access %s.\n\n"+
			"Email: %s\nDisplay Name: %s\nReason: %s\nTimestamp: %s\n\nUser Agent: %s",
		n.appName,
		entry.Email, entry.DisplayName, entry.Reason,
		entry.Timestamp.Format("2006-01-02 15:04:05 MST"),
		entry.UserAgent,
	)
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: "Unauthorized Access Attempt Detected",
		BodyStr: body,
	})
}
