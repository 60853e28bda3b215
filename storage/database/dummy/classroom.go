package dummydb

import (
	"context"
	"sort"

	"github.com/pepschool/obshub/core/classroom"
)

type classroomRepository struct {
	classrooms *classroomTable
	students   *studentTable
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{classrooms: db.classroom, students: db.student}
}

func (repo *classroomRepository) queryClassrooms() []classroom.Classroom {
	all := make([]classroom.Classroom, 0, len(repo.classrooms.table))
	for _, c := range repo.classrooms.table {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (repo *classroomRepository) CreateClassroom(_ context.Context, cls classroom.Classroom) (classroom.Classroom, error) {
	repo.classrooms.Lock()
	defer repo.classrooms.Unlock()

	repo.classrooms.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classroomRepository) QueryAllClassrooms(_ context.Context) ([]classroom.Classroom, error) {
	repo.classrooms.RLock()
	defer repo.classrooms.RUnlock()
	return repo.queryClassrooms(), nil
}

func (repo *classroomRepository) GetClassroomByID(_ context.Context, id string) (classroom.Classroom, error) {
	repo.classrooms.RLock()
	defer repo.classrooms.RUnlock()

	if cls, ok := repo.classrooms.table[id]; ok {
		return *cls, nil
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) QueryClassroomsByTeacher(_ context.Context, teacherID string) ([]classroom.Classroom, error) {
	repo.classrooms.RLock()
	defer repo.classrooms.RUnlock()

	matches := make([]classroom.Classroom, 0)
	for _, cls := range repo.queryClassrooms() {
		if cls.HasTeacher(teacherID) {
			matches = append(matches, cls)
		}
	}
	return matches, nil
}

func (repo *classroomRepository) CreateStudent(_ context.Context, stu classroom.Student) (classroom.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	repo.students.table[stu.ID] = &stu
	return stu, nil
}

func (repo *classroomRepository) GetStudentByID(_ context.Context, id string) (classroom.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if stu, ok := repo.students.table[id]; ok {
		return *stu, nil
	}
	return classroom.Student{}, classroom.ErrStudentNotFound
}

func (repo *classroomRepository) QueryStudentsByClassroom(_ context.Context, classroomID string) ([]classroom.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	matches := make([]classroom.Student, 0)
	for _, stu := range repo.students.table {
		if stu.ClassroomID == classroomID {
			matches = append(matches, *stu)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}
