package main

import (
	"context"
	"log"
	"os"

	"github.com/mazury/mazury-client/internal/buildinfo"
	"github.com/mazury/mazury-client/internal/client/cli"
	"github.com/mazury/mazury-client/internal/client/config"
	"github.com/mazury/mazury-client/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
