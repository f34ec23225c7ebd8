package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alikri/ws-battleship/internal/config"
	"github.com/alikri/ws-battleship/internal/engine"
	"github.com/alikri/ws-battleship/internal/otel"
	"github.com/alikri/ws-battleship/internal/server"
	"github.com/alikri/ws-battleship/internal/stats"
	"github.com/alikri/ws-battleship/internal/stats/sqlite"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	log.SetPrefix("[GAME] ")
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	server.BuildVersion, server.BuildTime = buildVersion, buildTime

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "battleship-game", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	var tally stats.Tally = stats.NewMemory()
	if cfg.TallyDB != "" {
		store, err := sqlite.Open(cfg.TallyDB)
		if err != nil {
			log.Fatalf("failed to open tally: %v", err)
		}
		defer store.Close()
		tally = store
	}

	fleet, err := engine.ParseFleet(cfg.BotFleet)
	if err != nil {
		log.Fatalf("bot fleet: %v", err)
	}
	hub := server.NewHub(server.Options{
		Rules:    cfg.Rules(),
		Tally:    tally,
		BotDelay: cfg.BotDelay,
		BotFleet: fleet,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           server.WithCORS(server.NewRouter(hub)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("battleship game listening on %s (grid=%d extra-turn=%v tally=%q)", srv.Addr, cfg.GridSize, cfg.ExtraTurnOnHit, cfg.TallyDB)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
