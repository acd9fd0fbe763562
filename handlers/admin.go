// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/mrinaldi/quorum/guard"
	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/registry"
	"github.com/mrinaldi/quorum/session"
	"github.com/mrinaldi/quorum/store"
)

type AdminHandler struct {
	sessions *session.Service
	registry *registry.Service
	guard    *guard.Guard
	store    store.Store
}

func NewAdminHandler(sessions *session.Service, reg *registry.Service, g *guard.Guard, st store.Store) *AdminHandler {
	return &AdminHandler{sessions: sessions, registry: reg, guard: g, store: st}
}

// GetSession handles GET /session/admin - full session state including
// the access code, so the admin panel can prefill its fields.
func (h *AdminHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.GetSession(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AdminSessionView{
		Phase:      sess.Phase,
		Topic:      sess.Topic,
		AccessCode: sess.AccessCode,
	})
}

// SetTopic handles PUT /session/topic
func (h *AdminHandler) SetTopic(w http.ResponseWriter, r *http.Request) {
	var req models.SetTopicRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "topic is required")
		return
	}
	if err := h.sessions.SetTopic(r.Context(), topic); err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionView{Topic: topic})
}

// SetAccessCode handles PUT /session/access-code
func (h *AdminHandler) SetAccessCode(w http.ResponseWriter, r *http.Request) {
	var req models.SetAccessCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	code := strings.TrimSpace(req.AccessCode)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "access_code is required")
		return
	}
	if err := h.sessions.SetAccessCode(r.Context(), code); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Open handles POST /session/open
func (h *AdminHandler) Open(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Open(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionView{Phase: models.PhaseOpen})
}

// Close handles POST /session/close
func (h *AdminHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionView{Phase: models.PhaseClosed})
}

// Terminate handles POST /session/terminate (two-step confirm)
func (h *AdminHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	h.confirmThenRun(w, r, guard.ActionTerminate,
		"Confirm within the deadline to terminate the session and disconnect everyone",
		h.sessions.Terminate)
}

// ClearVotes handles POST /session/votes/clear (two-step confirm)
func (h *AdminHandler) ClearVotes(w http.ResponseWriter, r *http.Request) {
	h.confirmThenRun(w, r, guard.ActionClearVotes,
		"Confirm within the deadline to reset every vote",
		h.registry.ClearAllVotes)
}

// Wipe handles POST /session/wipe (two-step confirm)
func (h *AdminHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	h.confirmThenRun(w, r, guard.ActionWipe,
		"WARNING: this deletes all participants and the report archive. Confirm within the deadline.",
		h.sessions.Wipe)
}

// Abandon handles DELETE /session/confirmations/{action}
func (h *AdminHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	action := guard.Action(r.PathValue("action"))
	switch action {
	case guard.ActionClearVotes, guard.ActionWipe, guard.ActionTerminate:
		h.guard.Abandon(action)
		w.WriteHeader(http.StatusNoContent)
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown action")
	}
}

func (h *AdminHandler) confirmThenRun(w http.ResponseWriter, r *http.Request, action guard.Action, armMessage string, fn func(context.Context) error) {
	res, err := h.guard.Invoke(action, func() error {
		return fn(r.Context())
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !res.Executed {
		deadline := res.Deadline
		middleware.JSONResponse(w, http.StatusAccepted, models.ConfirmResponse{
			Armed:    true,
			Deadline: &deadline,
			Message:  armMessage,
		})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ConfirmResponse{Executed: true})
}
