package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrinaldi/quorum/bridge"
	"github.com/mrinaldi/quorum/cliparse"
	"github.com/mrinaldi/quorum/db"
	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/memstore"
	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/router"
	"github.com/mrinaldi/quorum/store"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := slog.Default()

	// Open the data store
	var st store.Store
	switch cfg.StoreType {
	case cliparse.StoreMemory:
		st = memstore.New()
		slog.Info("Using in-memory store")
	default:
		dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		if err := dbConn.Ping(); err != nil {
			slog.Error("database ping failed", "error", err)
			os.Exit(1)
		}

		if err := db.CreateSchema(dbConn); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema ready")

		st = db.New(dbConn, cfg.DatabaseURL, logger)
	}

	// Event bus and fan-out bridge
	bus := event.NewBus(prometheus.DefaultRegisterer, logger)
	br := bridge.New(st, bus, logger)

	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	go func() {
		if err := br.Run(bridgeCtx); err != nil {
			slog.Error("fan-out bridge failed", "error", err)
		}
	}()

	// Create router
	mux := router.NewRouter(st, bus, cfg)

	// Create server; the admin panel and voter pages are served from a
	// different origin, so the whole surface goes through CORS.
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		stopBridge()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
