package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	devinfo "github.com/anhprgm/dev-info"
)

func main() {
	dash, err := devinfo.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dash.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("dashboard exited: %v", err)
	}
}
