package classroom

import "time"

// Classroom groups students under one or more teachers. A teacher's uid in
// TeacherIDs grants them the classroom in role-scoped listings.
type Classroom struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	TeacherIDs []string  `json:"teacher_ids" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

func (c *Classroom) HasTeacher(uid string) bool {
	for _, id := range c.TeacherIDs {
		if id == uid {
			return true
		}
	}
	return false
}

type Student struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ClassroomID string    `json:"classroom_id" db:"classroom_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewClassroom contains information needed to create a Classroom.
type NewClassroom struct {
	Name       string   `json:"name" validate:"required"`
	TeacherIDs []string `json:"teacher_ids"`
}

// NewStudent contains information needed to enroll a Student.
type NewStudent struct {
	Name        string `json:"name" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
}
