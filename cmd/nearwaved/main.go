package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"nearwave/internal/logging"
	"nearwave/internal/server"
)

func main() {

	addr := flag.String("a", ":8080", "listen address")
	flag.Parse()

	logger := logging.NewTextLogger(os.Stdout, slog.LevelInfo)

	store := server.NewStore()
	store.SeedDemo()
	srv := server.New(store, logger)

	logger.Info(context.Background(), "nearwaved listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("%v", err)
	}

}
