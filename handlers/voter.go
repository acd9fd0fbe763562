// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/mrinaldi/quorum/middleware"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/registry"
)

type VoterHandler struct {
	registry *registry.Service
}

func NewVoterHandler(reg *registry.Service) *VoterHandler {
	return &VoterHandler{registry: reg}
}

// Admit handles POST /session/admit
func (h *VoterHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req models.AdmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}

	participant, err := h.registry.Admit(r.Context(), req.FirstName, req.LastName, req.AccessCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, participant)
}

// CastVote handles POST /participants/{id}/vote
func (h *VoterHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.ValidChoice(req.Choice) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice must be FAVOR, AGAINST or ABSTAIN")
		return
	}

	participant, err := h.registry.CastVote(r.Context(), id, req.Choice)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, participant)
}

// GetParticipant handles GET /participants/{id}
func (h *VoterHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	participant, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, participant)
}
