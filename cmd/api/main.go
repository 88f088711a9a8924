package main

import (
	"context"
	"log"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/server"
	"resume-screener/internal/shared/config"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	engine := server.NewEngine(cfg, app.Orchestrator, app.Logger)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := engine.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
