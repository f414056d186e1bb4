package main

import (
	"context"
	"log"
	"os"

	"github.com/mazury/mazury-client/internal/buildinfo"
	"github.com/mazury/mazury-client/internal/devserver"
	"github.com/mazury/mazury-client/internal/devserver/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	app, err := devserver.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
