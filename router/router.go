// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrinaldi/quorum/cliparse"
	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/guard"
	"github.com/mrinaldi/quorum/handlers"
	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/registry"
	"github.com/mrinaldi/quorum/session"
	"github.com/mrinaldi/quorum/store"
)

func NewRouter(st store.Store, bus *event.Bus, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	logger := slog.Default()
	sessions := session.NewService(st, logger)
	reg := registry.NewService(st, logger)
	g := guard.New(cfg.ConfirmTimeout, logger)

	adminHandler := handlers.NewAdminHandler(sessions, reg, g, st)
	voterHandler := handlers.NewVoterHandler(reg)
	viewHandler := handlers.NewViewHandler(st)
	eventsHandler := handlers.NewEventsHandler(bus)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKey, h))
	}

	// Health and metrics
	mux.HandleFunc("GET /health", viewHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Session control (admin operations)
	mux.HandleFunc("GET /session/admin", admin(adminHandler.GetSession))
	mux.HandleFunc("PUT /session/topic", admin(adminHandler.SetTopic))
	mux.HandleFunc("PUT /session/access-code", admin(adminHandler.SetAccessCode))
	mux.HandleFunc("POST /session/open", admin(adminHandler.Open))
	mux.HandleFunc("POST /session/close", admin(adminHandler.Close))
	mux.HandleFunc("POST /session/terminate", admin(adminHandler.Terminate))
	mux.HandleFunc("POST /session/votes/clear", admin(adminHandler.ClearVotes))
	mux.HandleFunc("POST /session/wipe", admin(adminHandler.Wipe))
	mux.HandleFunc("DELETE /session/confirmations/{action}", admin(adminHandler.Abandon))
	mux.HandleFunc("GET /session/participants", admin(viewHandler.ListParticipants))
	mux.HandleFunc("GET /session/reports", admin(viewHandler.ListReports))
	mux.HandleFunc("GET /session/export/attendance", admin(viewHandler.ExportAttendance))
	mux.HandleFunc("GET /session/export/reports", admin(viewHandler.ExportReports))

	// Voter operations (public)
	mux.HandleFunc("POST /session/admit", middleware.WithLogging(voterHandler.Admit))
	mux.HandleFunc("POST /participants/{id}/vote", middleware.WithLogging(voterHandler.CastVote))
	mux.HandleFunc("GET /participants/{id}", middleware.WithLogging(voterHandler.GetParticipant))

	// Read-only views (public)
	mux.HandleFunc("GET /session", middleware.WithLogging(viewHandler.GetSession))
	mux.HandleFunc("GET /session/stats", middleware.WithLogging(viewHandler.GetStats))
	mux.HandleFunc("GET /events", eventsHandler.Stream)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quorum API v1"))
	})

	return mux
}
