package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	id, email, name, role string,
	assignedClassrooms []string,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:                 id,
		Email:              email,
		DisplayName:        name,
		Role:               role,
		AssignedClassrooms: assignedClassrooms,
		CreatedAt:          tstamp,
		UpdatedAt:          tstamp,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClassroom(t *testing.T, repo classroom.Repository, name string, teacherIDs ...string) classroom.Classroom {
	t.Helper()
	cls := classroom.Classroom{
		ID:         uuid.New().String(),
		Name:       name,
		TeacherIDs: teacherIDs,
		CreatedAt:  time.Now().UTC(),
	}
	cls, err := repo.CreateClassroom(context.Background(), cls)
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return cls
}

func CreateStudent(t *testing.T, repo classroom.Repository, name, classroomID string) classroom.Student {
	t.Helper()
	stu := classroom.Student{
		ID:          uuid.New().String(),
		Name:        name,
		ClassroomID: classroomID,
		CreatedAt:   time.Now().UTC(),
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateObservation(
	t *testing.T,
	repo observation.Repository,
	stu classroom.Student,
	creator user.User,
	text string,
	isPrivate bool,
	timestamp ...time.Time,
) observation.Observation {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(timestamp) > 0 {
		tstamp = timestamp[0].UTC()
	}
	obs := observation.Observation{
		ID:           uuid.New().String(),
		StudentID:    stu.ID,
		ClassroomID:  stu.ClassroomID,
		TeacherID:    creator.ID,
		TeacherName:  creator.DisplayName,
		TeacherEmail: creator.Email,
		Timestamp:    tstamp,
		Text:         text,
		Type:         observation.TypeText,
		IsPrivate:    isPrivate,
		UpdatedAt:    tstamp,
	}
	obs, err := repo.CreateObservation(context.Background(), obs)
	if err != nil {
		t.Fatalf("CreateObservation() failed: %v", err)
	}
	return obs
}
