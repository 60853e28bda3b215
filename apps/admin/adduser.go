package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/user"
)

// addUser updates or creates a directory user.User.
func (cli *commandLine) addUser(id, email, name, role string, classrooms []string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{
			ID:                 id,
			Email:              email,
			DisplayName:        name,
			Role:               role,
			AssignedClassrooms: classrooms,
		}
		if err := nu.Validate(cli.usrSvc); err != nil {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, nu)
		return err
	}

	uu := user.UpdateUser{
		DisplayName:        name,
		PhotoURL:           usr.PhotoURL,
		Role:               role,
		AssignedClassrooms: classrooms,
	}
	if err := uu.Validate(usr); err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(ctx, id, uu)
	return err
}
