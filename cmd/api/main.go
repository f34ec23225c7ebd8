package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/alikri/ws-battleship/internal/config"
	"github.com/alikri/ws-battleship/internal/server"
	"github.com/alikri/ws-battleship/internal/stats/sqlite"
)

// newRouter serves the win tally read-only, next to a running game server
// that writes the same database.
func newRouter(store *sqlite.Store) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", server.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/winners", server.WinnersHandler(store)).Methods(http.MethodGet)
	r.HandleFunc("/version", server.VersionHandler).Methods(http.MethodGet)
	return r
}

func main() {
	log.SetPrefix("[API] ")
	cfg, err := config.ParseAPI(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	store, err := sqlite.Open(cfg.TallyDB)
	if err != nil {
		log.Fatalf("failed to open tally: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server.WithCORS(newRouter(store)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("leaderboard API listening on %s (tally=%s)", srv.Addr, cfg.TallyDB)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
