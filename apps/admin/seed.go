package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

type seedData struct {
	Classrooms []seedClassroom `json:"classrooms"`
	Users      []user.NewUser  `json:"users"`
}

type seedClassroom struct {
	Name       string   `json:"name"`
	TeacherIDs []string `json:"teacher_ids"`
	Students   []string `json:"students"`
}

// seed loads classrooms, students and directory users from a JSON file.
// Existing users are skipped, not overwritten.
func (cli *commandLine) seed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}

	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return errors.Wrap(err, "parsing seed file")
	}

	ctx := context.Background()

	for _, nu := range data.Users {
		nu := nu
		if err := nu.Validate(cli.usrSvc); err != nil {
			logger.Printf("skipping user %q: %v", nu.Email, err)
			continue
		}
		if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
			return errors.Wrapf(err, "creating user %q", nu.Email)
		}
		logger.Printf("created user %q", nu.Email)
	}

	for _, sc := range data.Classrooms {
		cls, err := cli.classroomSvc.CreateClassroom(ctx, classroom.NewClassroom{
			Name:       sc.Name,
			TeacherIDs: sc.TeacherIDs,
		})
		if err != nil {
			return errors.Wrapf(err, "creating classroom %q", sc.Name)
		}
		logger.Printf("created classroom %q", cls.Name)

		for _, name := range sc.Students {
			if _, err := cli.classroomSvc.CreateStudent(ctx, classroom.NewStudent{
				Name:        name,
				ClassroomID: cls.ID,
			}); err != nil {
				return errors.Wrapf(err, "enrolling student %q", name)
			}
		}
	}
	return nil
}
