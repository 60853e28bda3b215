package access_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/user"
	logsvc "github.com/pepschool/obshub/services/logger"
	dummydb "github.com/pepschool/obshub/storage/database/dummy"
	testutil "github.com/pepschool/obshub/tests"
)

var logger = logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))

func newTestConf() *core.Config {
	conf := core.NewTestConfig()
	conf.AllowedEmailDomain = "@school.test"
	return conf
}

// failingUserRepo forces directory lookups to fail with a transient store
// fault.
type failingUserRepo struct {
	user.Repository
}

func (repo failingUserRepo) GetUserByID(context.Context, string) (user.User, error) {
	return user.User{}, errors.New("store on fire")
}

func (repo failingUserRepo) GetUserByEmail(context.Context, string) (user.User, error) {
	return user.User{}, errors.New("store on fire")
}

type notifierMock struct {
	entries []access.LogEntry
}

func (n *notifierMock) NotifyDenied(_ context.Context, entry access.LogEntry) {
	n.entries = append(n.entries, entry)
}

func TestGateEvaluate(t *testing.T) {
	ctx := context.Background()
	conf := newTestConf()

	const (
		teacherID    = "uid-teacher"
		teacherEmail = "jane@school.test"
		noRoleID     = "uid-norole"
		noRoleEmail  = "norole@school.test"
	)

	tests := []struct {
		name       string
		idt        access.Identity
		want       access.Decision
		wantLogged bool
	}{
		{
			name: "wrong domain is denied before any lookup",
			idt:  access.Identity{ID: "x", Email: "intruder@gmail.com"},
			want: access.Decision{Status: access.StatusDenied, Reason: access.ReasonInvalidDomain},

			wantLogged: true,
		},
		{
			name: "domain check is case-insensitive",
			idt:  access.Identity{ID: teacherID, Email: "Jane@SCHOOL.TEST"},
			want: access.Decision{Status: access.StatusAuthorized, Role: user.RoleTeacher},
		},
		{
			name:       "unknown uid is denied",
			idt:        access.Identity{ID: "uid-ghost", Email: "ghost@school.test"},
			want:       access.Decision{Status: access.StatusDenied, Reason: access.ReasonNotInDirectory},
			wantLogged: true,
		},
		{
			name:       "known user without a role is denied",
			idt:        access.Identity{ID: noRoleID, Email: noRoleEmail},
			want:       access.Decision{Status: access.StatusDenied, Reason: access.ReasonMissingRole},
			wantLogged: true,
		},
		{
			name: "known teacher is authorized",
			idt:  access.Identity{ID: teacherID, Email: teacherEmail},
			want: access.Decision{Status: access.StatusAuthorized, Role: user.RoleTeacher},
		},
		{
			name: "legacy path: empty uid falls back to email lookup",
			idt:  access.Identity{Email: teacherEmail},
			want: access.Decision{Status: access.StatusAuthorized, Role: user.RoleTeacher},
		},
		{
			name:       "legacy path: unknown email is denied",
			idt:        access.Identity{Email: "ghost@school.test"},
			want:       access.Decision{Status: access.StatusDenied, Reason: access.ReasonNotInDirectory},
			wantLogged: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// fresh store per subtest; the directory must hold the fixture
			// users when Evaluate runs
			db := dummydb.Open()
			usrRepo := dummydb.NewUserRepository(db)
			logRepo := dummydb.NewAccessLogRepository(db)
			testutil.CreateUser(t, usrRepo, teacherID, teacherEmail, "Jane Poppins", user.RoleTeacher, nil)
			testutil.CreateUser(t, usrRepo, noRoleID, noRoleEmail, "No Role", "", nil)

			gate := access.NewGate(conf, usrRepo, logRepo, logger)

			got := gate.Evaluate(ctx, tt.idt)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v; want %+v", got, tt.want)
			}

			entries, err := logRepo.QueryAccessLogs(ctx)
			if err != nil {
				t.Fatalf("QueryAccessLogs() failed: %v", err)
			}
			wantEntries := 0
			if tt.wantLogged {
				wantEntries = 1
			}
			if len(entries) != wantEntries {
				t.Fatalf("audit entries = %d; want %d", len(entries), wantEntries)
			}
			if tt.wantLogged {
				entry := entries[0]
				if entry.Reason != tt.want.Reason {
					t.Errorf("entry.Reason = %q; want %q", entry.Reason, tt.want.Reason)
				}
				if entry.Email != tt.idt.Email {
					t.Errorf("entry.Email = %q; want %q", entry.Email, tt.idt.Email)
				}
				if entry.Timestamp.IsZero() {
					t.Error("entry.Timestamp not set")
				}
			}
		})
	}
}

func TestGateEvaluate_storeFault(t *testing.T) {
	ctx := context.Background()
	conf := newTestConf()

	db := dummydb.Open()
	logRepo := dummydb.NewAccessLogRepository(db)
	gate := access.NewGate(conf, failingUserRepo{dummydb.NewUserRepository(db)}, logRepo, logger)

	// a lookup fault must normalize to a denial, never escape
	got := gate.Evaluate(ctx, access.Identity{ID: "uid", Email: "jane@school.test"})
	want := access.Decision{Status: access.StatusDenied, Reason: access.ReasonValidationError}
	if got != want {
		t.Errorf("Evaluate() = %+v; want %+v", got, want)
	}

	entries, _ := logRepo.QueryAccessLogs(ctx)
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d; want 1", len(entries))
	}
	if entries[0].Reason != access.ReasonValidationError {
		t.Errorf("entry.Reason = %q; want %q", entries[0].Reason, access.ReasonValidationError)
	}
}

func TestGateEvaluate_auditWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	conf := newTestConf()

	db := dummydb.Open()
	logRepo := dummydb.NewAccessLogRepository(db)
	logRepo.FailWrites = errors.New("log store down")

	notifier := &notifierMock{}
	gate := access.NewGate(conf, dummydb.NewUserRepository(db), logRepo, logger)
	gate.SetNotifier(notifier)

	got := gate.Evaluate(ctx, access.Identity{ID: "x", Email: "intruder@gmail.com"})
	want := access.Decision{Status: access.StatusDenied, Reason: access.ReasonInvalidDomain}
	if got != want {
		t.Errorf("Evaluate() = %+v; want %+v", got, want)
	}
	// the notifier must not fire when the audit write failed
	if len(notifier.entries) != 0 {
		t.Errorf("notifier fired %d times; want 0", len(notifier.entries))
	}
}

func TestGateEvaluate_notifierFiresAfterAppend(t *testing.T) {
	ctx := context.Background()
	conf := newTestConf()

	db := dummydb.Open()
	logRepo := dummydb.NewAccessLogRepository(db)
	notifier := &notifierMock{}

	gate := access.NewGate(conf, dummydb.NewUserRepository(db), logRepo, logger)
	gate.SetNotifier(notifier)

	gate.Evaluate(ctx, access.Identity{ID: "x", Email: "intruder@gmail.com", DisplayName: "Intruder"})

	if len(notifier.entries) != 1 {
		t.Fatalf("notifier fired %d times; want 1", len(notifier.entries))
	}
	entry := notifier.entries[0]
	if entry.Reason != access.ReasonInvalidDomain {
		t.Errorf("entry.Reason = %q; want %q", entry.Reason, access.ReasonInvalidDomain)
	}
	if entry.DisplayName != "Intruder" {
		t.Errorf("entry.DisplayName = %q; want %q", entry.DisplayName, "Intruder")
	}

	// authorized attempts produce no entry and no notification
	testutil.CreateUser(t, dummydb.NewUserRepository(db), "uid-adm", "head@school.test", "Head", "admin", nil)
	gate.Evaluate(ctx, access.Identity{ID: "uid-adm", Email: "head@school.test"})

	entries, _ := logRepo.QueryAccessLogs(ctx)
	if len(entries) != 1 {
		t.Errorf("audit entries = %d; want 1", len(entries))
	}
	if len(notifier.entries) != 1 {
		t.Errorf("notifier fired %d times; want 1", len(notifier.entries))
	}
}
