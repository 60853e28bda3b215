package observation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("observation not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	Repository interface {
		CreateObservation(ctx context.Context, obs Observation) (Observation, error)
		GetObservationByID(ctx context.Context, id string) (Observation, error)
		QueryAllObservations(ctx context.Context) ([]Observation, error)
		QueryObservationsByStudent(ctx context.Context, studentID string) ([]Observation, error)
		QueryPendingVoiceObservations(ctx context.Context) ([]Observation, error)
		UpdateObservation(ctx context.Context, obs Observation) (Observation, error)
		DeleteObservation(ctx context.Context, id string) error
	}

	// Service mediates every observation mutation behind the permission
	// matrix. Unlike the original client, permissions are re-checked here,
	// server-side, before any store write.
	Service interface {
		Create(ctx context.Context, actor user.User, no NewObservation) (Observation, error)
		Get(ctx context.Context, actor user.User, id string) (Observation, error)
		Timeline(ctx context.Context, actor user.User, studentID string, filter *QueryFilter) ([]Observation, error)
		Edit(ctx context.Context, actor user.User, id, text string) (Observation, error)
		Delete(ctx context.Context, actor user.User, id string) error
		SetStarred(ctx context.Context, actor user.User, id string, starred bool) (Observation, error)
		Reassign(ctx context.Context, actor user.User, id, newStudentID string) (Observation, error)
		Stats(ctx context.Context, actor user.User) (Summary, error)
	}

	service struct {
		repo     Repository
		students classroom.Service
		scope    *ClassroomScope
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, classroomSvc classroom.Service) Service {
	return &service{
		repo:     repo,
		students: classroomSvc,
		scope:    NewClassroomScope(classroomSvc),
	}
}

func (svc *service) Create(ctx context.Context, actor user.User, no NewObservation) (Observation, error) {
	if err := no.Validate(); err != nil {
		return Observation{}, err
	}

	stu, err := svc.students.GetStudent(ctx, no.StudentID)
	if err != nil {
		return Observation{}, err
	}
	if !svc.scope.CanCreateFor(ctx, &stu, &actor, actor.Role) {
		return Observation{}, ErrPermissionDenied
	}

	text := no.Text
	if no.Type == TypeVoice && text == "" {
		text = TranscribingText
	}

	now := time.Now().UTC()
	obs := Observation{
		ID:           uuid.New().String(),
		StudentID:    stu.ID,
		ClassroomID:  stu.ClassroomID,
		TeacherID:    actor.ID,
		TeacherName:  actor.DisplayName,
		TeacherEmail: actor.Email,
		Timestamp:    now,
		Text:         text,
		Type:         no.Type,
		IsPrivate:    no.IsPrivate,
		IsDraft:      no.IsDraft,
		DurationSec:  no.DurationSec,
		Tags:         no.Tags,
		UpdatedAt:    now,
	}
	return svc.repo.CreateObservation(ctx, obs)
}

func (svc *service) Get(ctx context.Context, actor user.User, id string) (Observation, error) {
	obs, err := svc.repo.GetObservationByID(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	if !CanView(&obs, &actor, actor.Role) {
		return Observation{}, ErrPermissionDenied
	}
	return obs, nil
}

func (svc *service) Timeline(ctx context.Context, actor user.User, studentID string, filter *QueryFilter) ([]Observation, error) {
	all, err := svc.repo.QueryObservationsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	visible := make([]Observation, 0, len(all))
	for i := range all {
		if CanView(&all[i], &actor, actor.Role) {
			visible = append(visible, all[i])
		}
	}
	if filter != nil {
		visible = filter.Apply(visible)
	}
	SortByDate(visible)
	return visible, nil
}

func (svc *service) Edit(ctx context.Context, actor user.User, id, text string) (Observation, error) {
	obs, err := svc.repo.GetObservationByID(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	if !CanEdit(&obs, &actor, actor.Role) {
		return Observation{}, ErrPermissionDenied
	}

	text = core.CleanString(text)
	if text == "" {
		return Observation{}, core.NewValidationError(nil, core.FieldError{Field: "text", Error: "this field is required"})
	}

	now := time.Now().UTC()
	obs.Text = text
	obs.EditCount++
	obs.UpdatedAt = now
	obs.LastEditedBy = actor.ID
	obs.LastEditedAt = now
	return svc.repo.UpdateObservation(ctx, obs)
}

func (svc *service) Delete(ctx context.Context, actor user.User, id string) error {
	obs, err := svc.repo.GetObservationByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(&obs, &actor, actor.Role) {
		return ErrPermissionDenied
	}
	return svc.repo.DeleteObservation(ctx, id)
}

func (svc *service) SetStarred(ctx context.Context, actor user.User, id string, starred bool) (Observation, error) {
	obs, err := svc.repo.GetObservationByID(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	if !CanStar(&obs, &actor, actor.Role) {
		return Observation{}, ErrPermissionDenied
	}
	obs.IsStarred = starred
	obs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateObservation(ctx, obs)
}

// Reassign moves the note to another student. The classroom reference is
// re-derived from the new student; TeacherID is never touched.
func (svc *service) Reassign(ctx context.Context, actor user.User, id, newStudentID string) (Observation, error) {
	obs, err := svc.repo.GetObservationByID(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	if !CanReassign(&obs, &actor, actor.Role) {
		return Observation{}, ErrPermissionDenied
	}

	stu, err := svc.students.GetStudent(ctx, newStudentID)
	if err != nil {
		return Observation{}, err
	}

	now := time.Now().UTC()
	obs.StudentID = stu.ID
	obs.ClassroomID = stu.ClassroomID
	obs.UpdatedAt = now
	obs.LastEditedBy = actor.ID
	obs.LastEditedAt = now
	return svc.repo.UpdateObservation(ctx, obs)
}

func (svc *service) Stats(ctx context.Context, actor user.User) (Summary, error) {
	all, err := svc.repo.QueryAllObservations(ctx)
	if err != nil {
		return Summary{}, err
	}
	visible := make([]Observation, 0, len(all))
	for i := range all {
		if CanView(&all[i], &actor, actor.Role) {
			visible = append(visible, all[i])
		}
	}
	return Summarize(visible), nil
}
