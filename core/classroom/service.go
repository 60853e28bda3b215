package classroom

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("classroom not found")
	ErrStudentNotFound = errors.New("student not found")
)

type (
	Repository interface {
		CreateClassroom(ctx context.Context, cls Classroom) (Classroom, error)
		QueryAllClassrooms(ctx context.Context) ([]Classroom, error)
		GetClassroomByID(ctx context.Context, id string) (Classroom, error)
		QueryClassroomsByTeacher(ctx context.Context, teacherID string) ([]Classroom, error)
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryStudentsByClassroom(ctx context.Context, classroomID string) ([]Student, error)
	}

	Service interface {
		CreateClassroom(ctx context.Context, nc NewClassroom) (Classroom, error)
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		// ForUser lists classrooms visible to usr: all of them for an admin,
		// only classrooms carrying their uid for a teacher.
		ForUser(ctx context.Context, usr user.User) ([]Classroom, error)
		GetByID(ctx context.Context, id string) (Classroom, error)
		// GetClassroomName resolves a classroom id to its display name.
		// Teacher scoping joins on names, not ids (see observation.ClassroomScope).
		GetClassroomName(ctx context.Context, id string) (string, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// GetStudentClassroomID resolves the classroom a student belongs to.
		GetStudentClassroomID(ctx context.Context, studentID string) (string, error)
		Students(ctx context.Context, classroomID string) ([]Student, error)
		// StudentCounts returns the number of enrolled students per classroom id.
		StudentCounts(ctx context.Context, classrooms []Classroom) (map[string]int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateClassroom(ctx context.Context, nc NewClassroom) (Classroom, error) {
	nc.Name = core.CleanString(nc.Name)
	nc.TeacherIDs = core.CleanStrings(nc.TeacherIDs)
	if err := core.Validate.Struct(nc); err != nil {
		return Classroom{}, err
	}
	cls := Classroom{
		ID:         uuid.New().String(),
		Name:       nc.Name,
		TeacherIDs: nc.TeacherIDs,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateClassroom(ctx, cls)
}

func (svc *service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Name = core.CleanString(ns.Name)
	if err := core.Validate.Struct(ns); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetClassroomByID(ctx, ns.ClassroomID); err != nil {
		return Student{}, err
	}
	stu := Student{
		ID:          uuid.New().String(),
		Name:        ns.Name,
		ClassroomID: ns.ClassroomID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, stu)
}

func (svc *service) ForUser(ctx context.Context, usr user.User) ([]Classroom, error) {
	if usr.IsAdmin() {
		return svc.repo.QueryAllClassrooms(ctx)
	}
	return svc.repo.QueryClassroomsByTeacher(ctx, usr.ID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Classroom, error) {
	return svc.repo.GetClassroomByID(ctx, id)
}

func (svc *service) GetClassroomName(ctx context.Context, id string) (string, error) {
	cls, err := svc.repo.GetClassroomByID(ctx, id)
	if err != nil {
		return "", err
	}
	return cls.Name, nil
}

func (svc *service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetStudentClassroomID(ctx context.Context, studentID string) (string, error) {
	stu, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	return stu.ClassroomID, nil
}

func (svc *service) Students(ctx context.Context, classroomID string) ([]Student, error) {
	return svc.repo.QueryStudentsByClassroom(ctx, classroomID)
}

func (svc *service) StudentCounts(ctx context.Context, classrooms []Classroom) (map[string]int, error) {
	counts := make(map[string]int, len(classrooms))
	for _, cls := range classrooms {
		students, err := svc.repo.QueryStudentsByClassroom(ctx, cls.ID)
		if err != nil {
			return nil, err
		}
		counts[cls.ID] = len(students)
	}
	return counts, nil
}
