package dummydb

import (
	"sync"

	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
)

// DB is an in-memory store used in tests and local development.
type DB struct {
	user        *userTable
	classroom   *classroomTable
	student     *studentTable
	observation *observationTable
	accessLog   *accessLogTable
}

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		classroom:   &classroomTable{table: make(map[string]*classroom.Classroom)},
		student:     &studentTable{table: make(map[string]*classroom.Student)},
		observation: &observationTable{table: make(map[string]*observation.Observation)},
		accessLog:   &accessLogTable{},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.classroom.Lock()
	db.classroom.table = make(map[string]*classroom.Classroom)
	db.classroom.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*classroom.Student)
	db.student.Unlock()

	db.observation.Lock()
	db.observation.table = make(map[string]*observation.Observation)
	db.observation.Unlock()

	db.accessLog.Lock()
	db.accessLog.table = nil
	db.accessLog.Unlock()
}

type userTable struct {
	sync.RWMutex
	table map[string]*user.User
}

type classroomTable struct {
	sync.RWMutex
	table map[string]*classroom.Classroom
}

type studentTable struct {
	sync.RWMutex
	table map[string]*classroom.Student
}

type observationTable struct {
	sync.RWMutex
	table map[string]*observation.Observation
}

type accessLogTable struct {
	sync.RWMutex
	table []access.LogEntry
}
