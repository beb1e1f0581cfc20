package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/assignhub/internal/buildinfo"
	"github.com/dmitrijs2005/assignhub/internal/client/cli"
	"github.com/dmitrijs2005/assignhub/internal/client/config"
	"github.com/dmitrijs2005/assignhub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, logging.FormatText, cfg.Verbose)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
