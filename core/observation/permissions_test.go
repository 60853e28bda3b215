package observation

import (
	"testing"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

var (
	admin   = user.User{ID: "uid-admin", Email: "head@school.test", Role: user.RoleAdmin}
	creator = user.User{ID: "uid-jane", Email: "jane@school.test", Role: user.RoleTeacher}
	other   = user.User{ID: "uid-mark", Email: "mark@school.test", Role: user.RoleTeacher}
)

func obsBy(usr user.User, private bool) *Observation {
	return &Observation{ID: "obs1", TeacherID: usr.ID, TeacherEmail: usr.Email, IsPrivate: private}
}

func TestCanEdit_CanDelete(t *testing.T) {
	obs := obsBy(creator, false)

	tests := []struct {
		name string
		usr  *user.User
		want bool
	}{
		{name: "admin may", usr: &admin, want: true},
		{name: "creator may not edit their own note", usr: &creator, want: false},
		{name: "other teacher may not", usr: &other, want: false},
		{name: "nil user may not", usr: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := ""
			if tt.usr != nil {
				role = tt.usr.Role
			}
			if got := CanEdit(obs, tt.usr, role); got != tt.want {
				t.Errorf("CanEdit() = %v; want %v", got, tt.want)
			}
			if got := CanDelete(obs, tt.usr, role); got != tt.want {
				t.Errorf("CanDelete() = %v; want %v", got, tt.want)
			}
		})
	}

	if CanEdit(nil, &admin, admin.Role) {
		t.Error("CanEdit(nil obs) = true; want false")
	}
	if CanDelete(nil, &admin, admin.Role) {
		t.Error("CanDelete(nil obs) = true; want false")
	}
}

func TestCanReassign(t *testing.T) {
	obs := obsBy(creator, false)

	tests := []struct {
		name string
		usr  *user.User
		want bool
	}{
		{name: "creator may", usr: &creator, want: true},
		// reassignment is creator-only, role does not override
		{name: "admin may not reassign someone else's note", usr: &admin, want: false},
		{name: "other teacher may not", usr: &other, want: false},
		{name: "nil user may not", usr: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := ""
			if tt.usr != nil {
				role = tt.usr.Role
			}
			if got := CanReassign(obs, tt.usr, role); got != tt.want {
				t.Errorf("CanReassign() = %v; want %v", got, tt.want)
			}
		})
	}

	// an admin may reassign their own note
	adminObs := obsBy(admin, false)
	if !CanReassign(adminObs, &admin, admin.Role) {
		t.Error("CanReassign(own note) = false; want true")
	}
}

func TestCanStar(t *testing.T) {
	obs := obsBy(creator, false)

	tests := []struct {
		name string
		usr  *user.User
		want bool
	}{
		{name: "admin may", usr: &admin, want: true},
		{name: "creator may", usr: &creator, want: true},
		{name: "other teacher may not", usr: &other, want: false},
		{name: "nil user may not", usr: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := ""
			if tt.usr != nil {
				role = tt.usr.Role
			}
			if got := CanStar(obs, tt.usr, role); got != tt.want {
				t.Errorf("CanStar() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name    string
		private bool
		usr     *user.User
		want    bool
	}{
		{name: "admin sees public", private: false, usr: &admin, want: true},
		{name: "admin sees private", private: true, usr: &admin, want: true},
		{name: "creator sees own private", private: true, usr: &creator, want: true},
		{name: "other teacher sees public", private: false, usr: &other, want: true},
		{name: "other teacher cannot see private", private: true, usr: &other, want: false},
		{name: "nil user sees nothing", private: false, usr: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := ""
			if tt.usr != nil {
				role = tt.usr.Role
			}
			if got := CanView(obsBy(creator, tt.private), tt.usr, role); got != tt.want {
				t.Errorf("CanView() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreateFor(t *testing.T) {
	stu := &classroom.Student{ID: "stu1", Name: "Ada", ClassroomID: "cls1"}
	assigned := []string{"Sunflower Room", "Tulip Room"}

	tests := []struct {
		name              string
		usr               *user.User
		role              string
		userClassrooms    []string
		studentClassrooms string
		want              bool
	}{
		{name: "admin may for any student", usr: &admin, role: user.RoleAdmin, studentClassrooms: "Rose Room", want: true},
		{name: "teacher may within assignment", usr: &creator, role: user.RoleTeacher, userClassrooms: assigned, studentClassrooms: "Sunflower Room", want: true},
		{name: "teacher may not outside assignment", usr: &creator, role: user.RoleTeacher, userClassrooms: assigned, studentClassrooms: "Rose Room", want: false},
		{name: "teacher with no assignments may not", usr: &creator, role: user.RoleTeacher, studentClassrooms: "Sunflower Room", want: false},
		{name: "unassigned role may not", usr: &creator, role: "", userClassrooms: assigned, studentClassrooms: "Sunflower Room", want: false},
		{name: "nil user may not", usr: nil, role: user.RoleAdmin, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreateFor(stu, tt.usr, tt.role, tt.userClassrooms, tt.studentClassrooms); got != tt.want {
				t.Errorf("CanCreateFor() = %v; want %v", got, tt.want)
			}
		})
	}

	if CanCreateFor(nil, &admin, user.RoleAdmin, nil, "") {
		t.Error("CanCreateFor(nil student) = true; want false")
	}

	// matching is on names, exact
	if CanCreateFor(stu, &creator, user.RoleTeacher, []string{"sunflower room"}, "Sunflower Room") {
		t.Error("CanCreateFor() matched case-insensitively; want exact name match")
	}
}

func TestPermissionsFor(t *testing.T) {
	obs := obsBy(creator, true)

	got := PermissionsFor(obs, &creator, creator.Role)
	want := Permissions{CanView: true, CanEdit: false, CanDelete: false, CanReassign: true, CanStar: true}
	if got != want {
		t.Errorf("PermissionsFor(creator) = %+v; want %+v", got, want)
	}

	got = PermissionsFor(obs, &admin, admin.Role)
	want = Permissions{CanView: true, CanEdit: true, CanDelete: true, CanReassign: false, CanStar: true}
	if got != want {
		t.Errorf("PermissionsFor(admin) = %+v; want %+v", got, want)
	}

	got = PermissionsFor(obs, &other, other.Role)
	want = Permissions{}
	if got != want {
		t.Errorf("PermissionsFor(other) = %+v; want %+v", got, want)
	}

	// evaluation is idempotent
	if again := PermissionsFor(obs, &admin, admin.Role); again != PermissionsFor(obs, &admin, admin.Role) {
		t.Errorf("PermissionsFor() not stable: %+v != %+v", again, PermissionsFor(obs, &admin, admin.Role))
	}
}
