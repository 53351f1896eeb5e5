package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
	emailsvc "github.com/edugrade/portal/services/email"
	logsvc "github.com/edugrade/portal/services/logger"
	"github.com/edugrade/portal/storage/database"
	sqlxrepos "github.com/edugrade/portal/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// start CLI
	cli := commandLine{
		db:         db,
		accountSvc: account.NewService(sqlxrepos.NewAccountRepository(db), emailsvc.NewConsoleService(conf), validator.New()),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
