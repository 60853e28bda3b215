package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/pepschool/obshub/apps/api/echo"
	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
	emailsvc "github.com/pepschool/obshub/services/email"
	logsvc "github.com/pepschool/obshub/services/logger"
	speechsvc "github.com/pepschool/obshub/services/speech"
	"github.com/pepschool/obshub/storage/database"
	sqlxrepos "github.com/pepschool/obshub/storage/database/sqlx"
)

const transcriptionSweepInterval = 30 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	sqlxDB := sqlx.NewDb(db, "postgres")

	// repositories
	userRepo := sqlxrepos.NewUserRepository(sqlxDB)
	classroomRepo := sqlxrepos.NewClassroomRepository(sqlxDB)
	observationRepo := sqlxrepos.NewObservationRepository(sqlxDB)
	accessLogRepo := sqlxrepos.NewAccessLogRepository(sqlxDB)

	// services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	userSvc := user.NewService(userRepo)
	classroomSvc := classroom.NewService(classroomRepo)
	observationSvc := observation.NewService(observationRepo, classroomSvc)

	gate := access.NewGate(conf, userRepo, accessLogRepo, logger)
	gate.SetNotifier(access.NewAdminNotifier(conf, userRepo, mailSvc, logger))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// =========================================================================
	// Start Transcription Worker

	// TODO: swap the dummy transcriber for a real speech-to-text backend
	worker := observation.NewTranscriptionWorker(
		observationRepo, speechsvc.NewDummyService(), logger, transcriptionSweepInterval)
	go worker.Run(ctx)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Address(),
		Conf:           conf,
		Logger:         logger,
		Gate:           gate,
		AccessLogs:     accessLogRepo,
		UserSvc:        userSvc,
		ClassroomSvc:   classroomSvc,
		ObservationSvc: observationSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-server.Shutdown():
		logger.Error("unrecoverable server error: Start shutdown...", nil)
	case sig := <-sigChan:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	// give outstanding requests a deadline for completion
	stopCtx, stopCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer stopCancel()

	if err = server.Stop(stopCtx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
