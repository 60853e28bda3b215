package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/user"
	testutil "github.com/pepschool/obshub/tests"
)

func Test_authApi_login(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	teacher := testutil.CreateUser(t, usrRepo, "uid-jane", "jane@school.test", "Jane Poppins", user.RoleTeacher, nil)
	testutil.CreateUser(t, usrRepo, "uid-norole", "norole@school.test", "No Role", "", nil)

	loginBody := func(id, email string) []byte {
		b, _ := json.Marshal(map[string]string{"id": id, "email": email, "display_name": "X"})
		return b
	}
	denied := marshallObj(t, httpErr{Error: "access denied"})

	tests := []httpTest{
		{name: "wrong domain is denied", body: loginBody("uid-x", "intruder@gmail.com"), wantCode: http.StatusForbidden, wantData: denied},
		{name: "unknown uid is denied", body: loginBody("uid-ghost", "ghost@school.test"), wantCode: http.StatusForbidden, wantData: denied},
		{name: "missing role is denied with the same generic message", body: loginBody("uid-norole", "norole@school.test"), wantCode: http.StatusForbidden, wantData: denied},
		{name: "known teacher gets a token", body: loginBody(teacher.ID, teacher.Email), wantCode: http.StatusOK},
		{name: "legacy path: email only", body: loginBody("", teacher.Email), wantCode: http.StatusOK},
		{name: "email is required", body: loginBody("uid-x", ""), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp struct {
					Token string    `json:"token"`
					Role  string    `json:"role"`
					User  user.User `json:"user"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("no token in response")
				}
				if resp.Role != user.RoleTeacher {
					t.Errorf("role = %q; want %q", resp.Role, user.RoleTeacher)
				}
				if resp.User.ID != teacher.ID {
					t.Errorf("user.id = %q; want %q", resp.User.ID, teacher.ID)
				}
			}
		})
	}

	// every denial above left exactly one audit entry
	entries, err := logRepo.QueryAccessLogs(ctx)
	if err != nil {
		t.Fatalf("QueryAccessLogs(): %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("audit entries = %d; want 3", len(entries))
	}
	wantReasons := map[string]string{
		"intruder@gmail.com": access.ReasonInvalidDomain,
		"ghost@school.test":  access.ReasonNotInDirectory,
		"norole@school.test": access.ReasonMissingRole,
	}
	for _, entry := range entries {
		if want := wantReasons[entry.Email]; entry.Reason != want {
			t.Errorf("entry for %q: reason = %q; want %q", entry.Email, entry.Reason, want)
		}
	}
}

func Test_accessLogApi_query(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "uid-head", "head@school.test", "Head", user.RoleAdmin, nil)
	teacher := testutil.CreateUser(t, usrRepo, "uid-jane", "jane@school.test", "Jane", user.RoleTeacher, nil)

	// record one denial
	loginBody, _ := json.Marshal(map[string]string{"email": "intruder@gmail.com"})
	req, rec := newRequest(http.MethodPost, "/v1/auth/login", loginBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("login code = %d; want 403", rec.Code)
	}

	tests := []httpTest{
		{name: "anonymous is rejected", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "teacher may not read the audit log", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "admin reads the audit log", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/access-logs", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var entries []access.LogEntry
				if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
					t.Fatalf("unmarshalling entries: %v", err)
				}
				if len(entries) != 1 {
					t.Fatalf("entries = %d; want 1", len(entries))
				}
				if entries[0].Email != "intruder@gmail.com" || entries[0].Reason != access.ReasonInvalidDomain {
					t.Errorf("entry = %+v", entries[0])
				}
			}
		})
	}
}
