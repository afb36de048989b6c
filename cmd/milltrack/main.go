package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/milldata/milltrack/config"
	"github.com/milldata/milltrack/internal/adminapi"
	"github.com/milldata/milltrack/internal/app"
	"github.com/milldata/milltrack/internal/webserver"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("c", "/etc/milltrack.yml", "config file")
	initDB   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("milltrack", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ws := webserver.Init(cfg, application.DB())
	adminapi.InitRouter()

	errchan := make(chan error, 1)
	go func() {
		errchan <- ws.Listen()
	}()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errchan:
		zap.L().Error("web server stopped", zap.Error(err))
	case sig := <-sigchan:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
	}
}
