package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"nearwave/internal/client/cli"
	"nearwave/internal/client/config"
	"nearwave/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
