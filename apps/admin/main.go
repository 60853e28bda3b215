package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
	"github.com/pepschool/obshub/storage/database"
	sqlxrepos "github.com/pepschool/obshub/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sqlxDB := sqlx.NewDb(db, "postgres")

	classroomSvc := classroom.NewService(sqlxrepos.NewClassroomRepository(sqlxDB))

	// start CLI
	cli := commandLine{
		db:           db,
		usrSvc:       user.NewService(sqlxrepos.NewUserRepository(sqlxDB)),
		classroomSvc: classroomSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
