package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/classroom"
)

type classroomRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	TeacherIDs pq.StringArray `db:"teacher_ids"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r classroomRow) toClassroom() classroom.Classroom {
	return classroom.Classroom{
		ID:         r.ID,
		Name:       r.Name,
		TeacherIDs: r.TeacherIDs,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

type classroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *sqlx.DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO classroom (id, name, teacher_ids, created_at) VALUES ($1, $2, $3, $4)`,
		room.ID, room.Name, pq.Array(room.TeacherIDs), room.CreatedAt,
	)
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "creating classroom")
	}
	return room, nil
}

func (repo *classroomRepository) QueryAllClassrooms(ctx context.Context) ([]classroom.Classroom, error) {
	var rows []classroomRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM classroom ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	return rowsToClassrooms(rows), nil
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	var row classroomRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM classroom WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "getting classroom")
	}
	return row.toClassroom(), nil
}

func (repo *classroomRepository) QueryClassroomsByTeacher(ctx context.Context, teacherID string) ([]classroom.Classroom, error) {
	var rows []classroomRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM classroom WHERE $1 = ANY(teacher_ids) ORDER BY name`, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classrooms by teacher")
	}
	return rowsToClassrooms(rows), nil
}

func (repo *classroomRepository) CreateStudent(ctx context.Context, stu classroom.Student) (classroom.Student, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, name, classroom_id, created_at) VALUES ($1, $2, $3, $4)`,
		stu.ID, stu.Name, stu.ClassroomID, stu.CreatedAt,
	)
	if err != nil {
		return classroom.Student{}, errors.Wrap(err, "creating student")
	}
	return stu, nil
}

func (repo *classroomRepository) GetStudentByID(ctx context.Context, id string) (classroom.Student, error) {
	var stu classroom.Student
	err := repo.db.GetContext(ctx, &stu, `SELECT * FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return classroom.Student{}, classroom.ErrStudentNotFound
	}
	if err != nil {
		return classroom.Student{}, errors.Wrap(err, "getting student")
	}
	stu.CreatedAt = stu.CreatedAt.UTC()
	return stu, nil
}

func (repo *classroomRepository) QueryStudentsByClassroom(ctx context.Context, classroomID string) ([]classroom.Student, error) {
	var students []classroom.Student
	err := repo.db.SelectContext(ctx, &students,
		`SELECT * FROM student WHERE classroom_id = $1 ORDER BY name`, classroomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by classroom")
	}
	for i := range students {
		students[i].CreatedAt = students[i].CreatedAt.UTC()
	}
	return students, nil
}

func rowsToClassrooms(rows []classroomRow) []classroom.Classroom {
	rooms := make([]classroom.Classroom, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toClassroom())
	}
	return rooms
}
