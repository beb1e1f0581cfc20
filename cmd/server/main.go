package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/assignhub/internal/buildinfo"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server"
	"github.com/dmitrijs2005/assignhub/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.New(os.Stdout, logging.FormatJSON, false)

	app, err := server.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start server", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
