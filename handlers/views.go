// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mrinaldi/quorum/export"
	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/stats"
	"github.com/mrinaldi/quorum/store"
)

type ViewHandler struct {
	store store.Store
}

func NewViewHandler(st store.Store) *ViewHandler {
	return &ViewHandler{store: st}
}

// GetSession handles GET /session - public projection, no access code.
func (h *ViewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.GetSession(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionView{
		Phase: sess.Phase,
		Topic: sess.Topic,
	})
}

// GetStats handles GET /session/stats - live tally recomputed from the
// current participant snapshot.
func (h *ViewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	participants, err := h.store.ListParticipants(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats.Tally(participants))
}

// ListParticipants handles GET /session/participants (admin)
func (h *ViewHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.store.ListParticipants(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	middleware.JSONResponse(w, http.StatusOK, participants)
}

// ListReports handles GET /session/reports (admin)
func (h *ViewHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reports == nil {
		reports = []models.SessionReport{}
	}
	middleware.JSONResponse(w, http.StatusOK, reports)
}

// ExportAttendance handles GET /session/export/attendance (admin) -
// the sign-in sheet as semicolon-separated text.
func (h *ViewHandler) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	participants, err := h.store.ListParticipants(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance_sheet.csv"`)
	if err := export.Attendance(w, participants); err != nil {
		slog.Error("attendance export failed", "error", err)
	}
}

// ExportReports handles GET /session/export/reports (admin) - the
// report archive as semicolon-separated text.
func (h *ViewHandler) ExportReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report_archive.csv"`)
	if err := export.ReportArchive(w, reports); err != nil {
		slog.Error("report export failed", "error", err)
	}
}

// Health handles GET /health - one bounded, low-cost store read so the
// deployment platform (and its keep-alive cron) can probe liveness.
func (h *ViewHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.Error("health ping failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
