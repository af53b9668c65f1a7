// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/civicpulse/ledger/auth"
	"github.com/civicpulse/ledger/cliparse"
	"github.com/civicpulse/ledger/ledger"
	"github.com/civicpulse/ledger/middleware"
	"github.com/civicpulse/ledger/models"
)

type PetitionHandler struct {
	svc *ledger.Service
	cfg cliparse.Config
}

func NewPetitionHandler(svc *ledger.Service, cfg cliparse.Config) *PetitionHandler {
	return &PetitionHandler{svc: svc, cfg: cfg}
}

// CreatePetition handles POST /petitions
func (h *PetitionHandler) CreatePetition(w http.ResponseWriter, r *http.Request) {
	if _, ok := participantFromRequest(w, r); !ok {
		return
	}

	var req models.CreatePetitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	detail, err := h.svc.CreatePetition(r.Context(), req)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePetitionResponse{
		PetitionID: detail.Petition.ID,
		AdminKey:   auth.GenerateAdminKey(detail.Petition.ID, h.cfg.AdminKeySalt),
	})
}

// GetPetition handles GET /petitions/:id
// Returns the petition plus its milestones and timeline.
func (h *PetitionHandler) GetPetition(w http.ResponseWriter, r *http.Request) {
	petitionID := r.PathValue("id")
	if petitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "petition id is required")
		return
	}

	detail, err := h.svc.GetPetition(r.Context(), petitionID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// SignPetition handles POST /petitions/:id/signatures
func (h *PetitionHandler) SignPetition(w http.ResponseWriter, r *http.Request) {
	petitionID := r.PathValue("id")
	if petitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "petition id is required")
		return
	}

	participant, ok := participantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.SignPetitionRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	sig, err := h.svc.SignPetition(r.Context(), ledger.SignPetitionInput{
		PetitionID:    petitionID,
		ParticipantID: participant,
		Message:       req.Message,
	})
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SignPetitionResponse{
		Signature: sig,
		Message:   "Signature recorded",
	})
}

// UpdateStatus handles POST /petitions/:id/status
func (h *PetitionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	petitionID := r.PathValue("id")
	if petitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "petition id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(petitionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.UpdatePetitionStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	detail, err := h.svc.UpdatePetitionStatus(r.Context(), petitionID, req.Status, req.Note)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// Reopen handles POST /petitions/:id/reopen
// The explicit administrative path back to active; always logged in the
// petition timeline.
func (h *PetitionHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	petitionID := r.PathValue("id")
	if petitionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "petition id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(petitionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.UpdatePetitionStatusRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	detail, err := h.svc.ReopenPetition(r.Context(), petitionID, req.Note)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}
