package main

import (
	"flag"

	"github.com/stockease/stockease/config"
	"github.com/stockease/stockease/internal/api"
	"github.com/stockease/stockease/internal/app"
	"github.com/stockease/stockease/internal/webserver"
	"go.uber.org/zap"
)

var (
	conffile = flag.String("c", "/etc/stockease.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	api.Init()

	if err := webserver.Listen(); err != nil {
		zap.S().Fatal(err)
	}
}
