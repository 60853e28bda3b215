package observation

import (
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

// The permission matrix. Each predicate is a pure function of its inputs:
// no side effects, no store access, evaluated fresh on every call. Absent
// inputs always degrade to false rather than panicking.

// CanEdit reports whether usr may change the note's text. Only admins may
// edit notes, including the creator's own.
func CanEdit(obs *Observation, usr *user.User, role string) bool {
	if usr == nil || obs == nil {
		return false
	}
	return role == user.RoleAdmin
}

// CanDelete reports whether usr may delete the note. Only admins may delete.
func CanDelete(obs *Observation, usr *user.User, role string) bool {
	if usr == nil || obs == nil {
		return false
	}
	return role == user.RoleAdmin
}

// CanReassign reports whether usr may move the note to another student.
// Creator-only, regardless of role: an admin cannot reassign someone else's
// note.
func CanReassign(obs *Observation, usr *user.User, role string) bool {
	if usr == nil || obs == nil {
		return false
	}
	return obs.TeacherID == usr.ID
}

// CanStar reports whether usr may star/unstar the note.
func CanStar(obs *Observation, usr *user.User, role string) bool {
	if usr == nil || obs == nil {
		return false
	}
	if role == user.RoleAdmin {
		return true
	}
	return obs.TeacherID == usr.ID
}

// CanView reports whether usr may see the note at all. Admins see everything;
// others see their own notes and any note not marked private.
func CanView(obs *Observation, usr *user.User, role string) bool {
	if usr == nil || obs == nil {
		return false
	}
	if role == user.RoleAdmin {
		return true
	}
	if obs.TeacherID == usr.ID {
		return true
	}
	return !obs.IsPrivate
}

// CanCreateFor reports whether usr may record observations for stu.
// userClassrooms is the acting user's assigned classroom set; assignments
// store classroom display NAMES, not ids, so studentClassroomName must be
// stu's classroom id already resolved to its name (see ClassroomScope).
func CanCreateFor(stu *classroom.Student, usr *user.User, role string, userClassrooms []string, studentClassroomName string) bool {
	if usr == nil || stu == nil {
		return false
	}
	if role == user.RoleAdmin {
		return true
	}
	if role != user.RoleTeacher {
		return false
	}
	for _, name := range userClassrooms {
		if name == studentClassroomName {
			return true
		}
	}
	return false
}

// Permissions carries the per-action flags for one observation and one acting
// user, for UI consumption.
type Permissions struct {
	CanView     bool `json:"can_view"`
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	CanReassign bool `json:"can_reassign"`
	CanStar     bool `json:"can_star"`
}

// PermissionsFor evaluates every predicate for one observation.
func PermissionsFor(obs *Observation, usr *user.User, role string) Permissions {
	return Permissions{
		CanView:     CanView(obs, usr, role),
		CanEdit:     CanEdit(obs, usr, role),
		CanDelete:   CanDelete(obs, usr, role),
		CanReassign: CanReassign(obs, usr, role),
		CanStar:     CanStar(obs, usr, role),
	}
}
