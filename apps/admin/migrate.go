package main

import (
	"github.com/pepschool/obshub/storage/database"
)

var gooseRunFunc = database.RunGoose // mockable

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}
	return gooseRunFunc(command, cli.db, args...)
}
