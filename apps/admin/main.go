package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	core.InitValidators()

	// set up DB
	sqlDB, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = sqlDB.Close() }()
	errAndDie(sqlDB.Ping())
	db := sqlx.NewDb(sqlDB, conf.Database.Engine)

	// start CLI
	cli := commandLine{
		db:        sqlDB,
		usrSvc:    user.NewService(db, sqlxrepos.NewUserRepository(db)),
		memberSvc: member.NewService(db, sqlxrepos.NewMemberRepository(db)),
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
