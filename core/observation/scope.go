package observation

import (
	"context"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

// ClassroomScope resolves the name-based classroom indirection for the
// permission predicates: teacher assignments store classroom display names
// while students reference classrooms by id. Lookup faults degrade to a
// denial, never an error.
//
// TODO: switch assignments to classroom ids once the directory schema is
// migrated; name-based scoping breaks silently on classroom renames.
type ClassroomScope struct {
	classrooms classroom.Service
}

func NewClassroomScope(classrooms classroom.Service) *ClassroomScope {
	return &ClassroomScope{classrooms: classrooms}
}

// InScope reports whether the given classroom id resolves to a name in the
// user's assigned set.
func (s *ClassroomScope) InScope(ctx context.Context, classroomID string, userClassrooms []string) bool {
	name, err := s.classrooms.GetClassroomName(ctx, classroomID)
	if err != nil {
		return false
	}
	for _, n := range userClassrooms {
		if n == name {
			return true
		}
	}
	return false
}

// CanCreateFor evaluates the creation predicate for a student known only by
// id, resolving the student's classroom name first.
func (s *ClassroomScope) CanCreateFor(ctx context.Context, stu *classroom.Student, usr *user.User, role string) bool {
	if usr == nil || stu == nil {
		return false
	}
	if role == user.RoleAdmin {
		return true
	}
	name, err := s.classrooms.GetClassroomName(ctx, stu.ClassroomID)
	if err != nil {
		return false
	}
	return CanCreateFor(stu, usr, role, usr.AssignedClassrooms, name)
}
