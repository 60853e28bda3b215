package observation_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
	dummydb "github.com/pepschool/obshub/storage/database/dummy"
	testutil "github.com/pepschool/obshub/tests"
)

type fixture struct {
	db       *dummydb.DB
	obsRepo  observation.Repository
	clsRepo  classroom.Repository
	svc      observation.Service
	admin    user.User
	teacher  user.User // assigned to "Sunflower Room"
	outsider user.User // assigned elsewhere
	room     classroom.Classroom
	student  classroom.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dummydb.Open()
	obsRepo := dummydb.NewObservationRepository(db)
	clsRepo := dummydb.NewClassroomRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	f := &fixture{
		db:      db,
		obsRepo: obsRepo,
		clsRepo: clsRepo,
		svc:     observation.NewService(obsRepo, classroom.NewService(clsRepo)),
	}
	f.admin = testutil.CreateUser(t, usrRepo, "uid-admin", "head@school.test", "Head", user.RoleAdmin, nil)
	f.teacher = testutil.CreateUser(t, usrRepo, "uid-jane", "jane@school.test", "Jane Poppins", user.RoleTeacher,
		[]string{"Sunflower Room"})
	f.outsider = testutil.CreateUser(t, usrRepo, "uid-mark", "mark@school.test", "Mark", user.RoleTeacher,
		[]string{"Rose Room"})
	f.room = testutil.CreateClassroom(t, clsRepo, "Sunflower Room", f.teacher.ID)
	f.student = testutil.CreateStudent(t, clsRepo, "Ada", f.room.ID)
	return f
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	no := observation.NewObservation{
		StudentID: f.student.ID,
		Text:      "Ada built a tower",
		Type:      observation.TypeText,
	}

	// assigned teacher may create; classroom ref is derived from the student
	obs, err := f.svc.Create(ctx, f.teacher, no)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if obs.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if obs.StudentID != f.student.ID || obs.ClassroomID != f.room.ID {
		t.Errorf("Create() refs = %q/%q; want %q/%q", obs.StudentID, obs.ClassroomID, f.student.ID, f.room.ID)
	}
	if obs.TeacherID != f.teacher.ID || obs.TeacherName != f.teacher.DisplayName || obs.TeacherEmail != f.teacher.Email {
		t.Errorf("Create() creator stamp = %q/%q/%q", obs.TeacherID, obs.TeacherName, obs.TeacherEmail)
	}

	// admin may create for any student
	if _, err := f.svc.Create(ctx, f.admin, no); err != nil {
		t.Errorf("Create() as admin failed: %v", err)
	}

	// teacher assigned elsewhere may not
	if _, err := f.svc.Create(ctx, f.outsider, no); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("Create() as outsider error = %v; want ErrPermissionDenied", err)
	}

	// unknown student
	no.StudentID = "stu-ghost"
	if _, err := f.svc.Create(ctx, f.teacher, no); errors.Cause(err) != classroom.ErrStudentNotFound {
		t.Errorf("Create() for ghost student error = %v; want ErrStudentNotFound", err)
	}
}

func TestServiceCreate_voicePlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	obs, err := f.svc.Create(ctx, f.teacher, observation.NewObservation{
		StudentID: f.student.ID,
		Type:      observation.TypeVoice,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if obs.Text != observation.TranscribingText {
		t.Errorf("Text = %q; want %q", obs.Text, observation.TranscribingText)
	}
	if !obs.PendingTranscription() {
		t.Error("PendingTranscription() = false; want true")
	}

	// a text note with no text is invalid
	_, err = f.svc.Create(ctx, f.teacher, observation.NewObservation{
		StudentID: f.student.ID,
		Type:      observation.TypeText,
	})
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Create() error = %v; want ValidationError", err)
	}
}

func TestServiceEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	obs := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "original", false)

	// only admins may edit, including over the creator
	if _, err := f.svc.Edit(ctx, f.teacher, obs.ID, "changed"); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("Edit() as creator error = %v; want ErrPermissionDenied", err)
	}

	got, err := f.svc.Edit(ctx, f.admin, obs.ID, "changed")
	if err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	if got.Text != "changed" {
		t.Errorf("Text = %q; want %q", got.Text, "changed")
	}
	if got.EditCount != 1 {
		t.Errorf("EditCount = %d; want 1", got.EditCount)
	}
	if got.LastEditedBy != f.admin.ID || got.LastEditedAt.IsZero() {
		t.Errorf("LastEditedBy/At = %q/%v", got.LastEditedBy, got.LastEditedAt)
	}

	// edits accumulate
	got, err = f.svc.Edit(ctx, f.admin, obs.ID, "changed again")
	if err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	if got.EditCount != 2 {
		t.Errorf("EditCount = %d; want 2", got.EditCount)
	}

	// blank text is rejected
	if _, err := f.svc.Edit(ctx, f.admin, obs.ID, "   "); err == nil {
		t.Error("Edit() with blank text succeeded; want validation error")
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	obs := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "note", false)

	if err := f.svc.Delete(ctx, f.teacher, obs.ID); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("Delete() as creator error = %v; want ErrPermissionDenied", err)
	}
	if err := f.svc.Delete(ctx, f.admin, obs.ID); err != nil {
		t.Fatalf("Delete() as admin failed: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.admin, obs.ID); errors.Cause(err) != observation.ErrNotFound {
		t.Errorf("Get() after delete error = %v; want ErrNotFound", err)
	}
}

func TestServiceSetStarred(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	obs := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "note", false)

	got, err := f.svc.SetStarred(ctx, f.teacher, obs.ID, true)
	if err != nil {
		t.Fatalf("SetStarred() as creator failed: %v", err)
	}
	if !got.IsStarred {
		t.Error("IsStarred = false; want true")
	}

	if _, err := f.svc.SetStarred(ctx, f.admin, obs.ID, false); err != nil {
		t.Fatalf("SetStarred() as admin failed: %v", err)
	}
	if _, err := f.svc.SetStarred(ctx, f.outsider, obs.ID, true); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("SetStarred() as outsider error = %v; want ErrPermissionDenied", err)
	}
}

func TestServiceReassign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	otherRoom := testutil.CreateClassroom(t, f.clsRepo, "Rose Room", f.outsider.ID)
	otherStudent := testutil.CreateStudent(t, f.clsRepo, "Grace", otherRoom.ID)
	obs := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "note", false)

	// creator-only, regardless of role
	if _, err := f.svc.Reassign(ctx, f.admin, obs.ID, otherStudent.ID); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("Reassign() as admin error = %v; want ErrPermissionDenied", err)
	}

	got, err := f.svc.Reassign(ctx, f.teacher, obs.ID, otherStudent.ID)
	if err != nil {
		t.Fatalf("Reassign() failed: %v", err)
	}
	if got.StudentID != otherStudent.ID {
		t.Errorf("StudentID = %q; want %q", got.StudentID, otherStudent.ID)
	}
	// classroom ref follows the new student; the creator stamp does not move
	if got.ClassroomID != otherRoom.ID {
		t.Errorf("ClassroomID = %q; want %q", got.ClassroomID, otherRoom.ID)
	}
	if got.TeacherID != f.teacher.ID {
		t.Errorf("TeacherID = %q; want %q", got.TeacherID, f.teacher.ID)
	}

	if _, err := f.svc.Reassign(ctx, f.teacher, obs.ID, "stu-ghost"); errors.Cause(err) != classroom.ErrStudentNotFound {
		t.Errorf("Reassign() to ghost error = %v; want ErrStudentNotFound", err)
	}
}

func TestServiceTimeline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Now().UTC()
	public := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "public", false, now.Add(-2*time.Hour))
	private := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "private", true, now.Add(-1*time.Hour))
	byOther := testutil.CreateObservation(t, f.obsRepo, f.student, f.outsider, "by mark", false, now)

	tests := []struct {
		name  string
		actor user.User
		want  []string // expected ids, newest first
	}{
		{name: "admin sees everything", actor: f.admin, want: []string{byOther.ID, private.ID, public.ID}},
		{name: "creator sees own private", actor: f.teacher, want: []string{byOther.ID, private.ID, public.ID}},
		{name: "others do not see private", actor: f.outsider, want: []string{byOther.ID, public.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Timeline(ctx, tt.actor, f.student.ID, nil)
			if err != nil {
				t.Fatalf("Timeline() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Timeline() returned %d notes; want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Timeline()[%d] = %q; want %q", i, got[i].ID, id)
				}
			}
		})
	}

	// filters narrow the visible set
	got, err := f.svc.Timeline(ctx, f.admin, f.student.ID, &observation.QueryFilter{Creator: "Mark"})
	if err != nil {
		t.Fatalf("Timeline() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != byOther.ID {
		t.Errorf("Timeline(filter) = %v; want [%s]", got, byOther.ID)
	}
}

func TestServiceGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	private := testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "private", true)

	if _, err := f.svc.Get(ctx, f.outsider, private.ID); errors.Cause(err) != observation.ErrPermissionDenied {
		t.Errorf("Get() as outsider error = %v; want ErrPermissionDenied", err)
	}
	if _, err := f.svc.Get(ctx, f.teacher, private.ID); err != nil {
		t.Errorf("Get() as creator failed: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.admin, "obs-ghost"); errors.Cause(err) != observation.ErrNotFound {
		t.Errorf("Get() ghost error = %v; want ErrNotFound", err)
	}
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "public", false)
	testutil.CreateObservation(t, f.obsRepo, f.student, f.teacher, "private", true)

	adminStats, err := f.svc.Stats(ctx, f.admin)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if adminStats.Total != 2 {
		t.Errorf("admin Total = %d; want 2", adminStats.Total)
	}

	// stats only count what the actor may see
	outsiderStats, err := f.svc.Stats(ctx, f.outsider)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if outsiderStats.Total != 1 {
		t.Errorf("outsider Total = %d; want 1", outsiderStats.Total)
	}
}
