package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/forgelabs/anvil/apps/api/echo"
	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/curriculum"
	"github.com/forgelabs/anvil/core/dashboard"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/scoring"
	"github.com/forgelabs/anvil/core/user"
	emailsvc "github.com/forgelabs/anvil/services/email"
	logsvc "github.com/forgelabs/anvil/services/logger"
	uploadsvc "github.com/forgelabs/anvil/services/uploads"
	"github.com/forgelabs/anvil/storage/database"
	pgrepos "github.com/forgelabs/anvil/storage/database/postgres"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(pgrepos.NewUserRepository(db), mailSvc, conf)
	problemSvc := problem.NewService(pgrepos.NewProblemRepository(db))
	resourceSvc := resource.NewService(pgrepos.NewResourceRepository(db))
	channelSvc := channel.NewService(pgrepos.NewChannelRepository(db))
	notifSvc := notification.NewService(pgrepos.NewNotificationRepository(db), usrSvc, mailSvc)
	curriculumSvc := curriculum.NewService(pgrepos.NewCurriculumRepository(db))
	scoringSvc := scoring.NewService(pgrepos.NewScoringRepository(db))
	dashboardSvc := dashboard.NewService(usrSvc, problemSvc, resourceSvc, channelSvc, notifSvc)

	uploader, err := uploadsvc.NewGCSUploader(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploader: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	initValidators()

	core.ParseEmailTemplates(conf, logger)

	user.LoadCommonPasswords(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			ProblemSvc:    problemSvc,
			ResourceSvc:   resourceSvc,
			ChannelSvc:    channelSvc,
			NotifSvc:      notifSvc,
			CurriculumSvc: curriculumSvc,
			DashboardSvc:  dashboardSvc,
			ScoringSvc:    scoringSvc,
			Uploader:      uploader,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func initValidators() {
	validate := validator.New()
	translator := newTranslator()

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	problem.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)
	channel.InitValidators(validate, translator)
	notification.InitValidators(validate, translator)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
