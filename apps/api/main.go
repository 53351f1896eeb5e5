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

	echoapi "github.com/edugrade/portal/apps/api/echo"
	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
	"github.com/edugrade/portal/core/activity"
	"github.com/edugrade/portal/core/contribution"
	"github.com/edugrade/portal/core/dataset"
	"github.com/edugrade/portal/core/performance"
	emailsvc "github.com/edugrade/portal/services/email"
	logsvc "github.com/edugrade/portal/services/logger"
	storagesvc "github.com/edugrade/portal/services/storage"
	"github.com/edugrade/portal/storage/database"
	sqlxrepos "github.com/edugrade/portal/storage/database/sqlx"
	"github.com/edugrade/portal/storage/redisfeed"
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

	// set up activity feed
	feed, closeFeed, err := setUpFeed(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up activity feed: %v", err), err)
	}
	defer closeFeed()

	// set up file storage
	files, err := storagesvc.NewLocalStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file storage: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	activitySvc := activity.NewService(feed, logger)
	accountSvc := account.NewService(sqlxrepos.NewAccountRepository(db), mailSvc, validate)
	datasetSvc := dataset.NewService(sqlxrepos.NewDatasetRepository(db), activitySvc)
	contributionSvc := contribution.NewService(contribution.Deps{
		Repo:     sqlxrepos.NewContributionRepository(db),
		Files:    files,
		Students: accountSvc,
		Activity: activitySvc,
		Mail:     mailSvc,
		Validate: validate,
		Logger:   logger,
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			AccountSvc:      accountSvc,
			DatasetSvc:      datasetSvc,
			PerformanceSvc:  performance.NewService(datasetSvc),
			ContributionSvc: contributionSvc,
			ActivitySvc:     activitySvc,
			Validate:        validate,
			Translator:      translator,
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

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// setUpFeed uses Redis when an address is configured, process memory otherwise.
func setUpFeed(conf *core.Config) (activity.Feed, func(), error) {
	if conf.Redis.Address == "" {
		return activity.NewMemoryFeed(int(conf.Redis.FeedLength)), func() {}, nil
	}

	client, err := redisfeed.Connect(context.Background(), conf.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redisfeed.New(client, conf.Redis.FeedLength), func() { _ = client.Close() }, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
