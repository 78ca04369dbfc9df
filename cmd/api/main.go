package main

import (
	"log"

	"cv-review/internal/bootstrap"
	"cv-review/internal/shared/config"
	"cv-review/internal/shared/server"
	"cv-review/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{
		"addr":     addr,
		"env":      cfg.Env,
		"provider": cfg.LLMProvider,
	})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
