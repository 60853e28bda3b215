package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db           *sql.DB
	usrSvc       user.Service
	classroomSvc classroom.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [COMMAND] - run database migrations (default: up)")
	fmt.Println("  adduser -id UID -email EMAIL -name NAME [-role ROLE] [-classrooms A,B] - provision a directory user")
	fmt.Println("  seed -file FILE - load classrooms, students and users from a JSON file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserID := addUserCmd.String("id", "", "The identity-provider uid.")
	addUserEmail := addUserCmd.String("email", "", "The user's institutional email.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", "", "Optional role: admin | teacher.")
	addUserClassrooms := addUserCmd.String("classrooms", "", "Comma-separated assigned classroom names (teachers only).")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedFile := seedCmd.String("file", "seed.json", "Path to the seed JSON file.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserID == "" || *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		var classrooms []string
		if *addUserClassrooms != "" {
			for _, name := range strings.Split(*addUserClassrooms, ",") {
				classrooms = append(classrooms, strings.TrimSpace(name))
			}
		}
		return cli.addUser(*addUserID, *addUserEmail, *addUserName, *addUserRole, classrooms)
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
