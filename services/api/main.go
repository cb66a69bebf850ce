package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/building-feature-engineering/services/api/config"
	httpserver "github.com/02loveslollipop/building-feature-engineering/services/api/http"
	"github.com/02loveslollipop/building-feature-engineering/services/api/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg, metrics.New())
	log.Printf("feature-engineering API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
