// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/civicpulse/ledger/auth"
	"github.com/civicpulse/ledger/cliparse"
	"github.com/civicpulse/ledger/ledger"
	"github.com/civicpulse/ledger/middleware"
	"github.com/civicpulse/ledger/models"
)

type VotingHandler struct {
	svc *ledger.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *ledger.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// participantFromRequest extracts and shape-checks the participant token.
func participantFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := r.Header.Get("X-Participant-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-Token header required")
		return "", false
	}
	if err := auth.ValidateParticipantToken(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return "", false
	}
	return token, true
}

// RegisterParticipant handles POST /participants
// Issues an anonymous, session-scoped participant token. Only a salted
// hash of the caller's IP is logged.
func (h *VotingHandler) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	token, err := auth.GenerateParticipantToken()
	if err != nil {
		slog.Error("failed to generate participant token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register participant")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	slog.Info("participant registered", "ip_hash", ipHash)

	middleware.JSONResponse(w, http.StatusCreated, models.ParticipantResponse{
		ParticipantToken: token,
	})
}

// CastVote handles POST /polls/:id/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	participant, ok := participantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.svc.CastVote(r.Context(), ledger.CastVoteInput{
		PollID:        pollID,
		ParticipantID: participant,
		OptionID:      req.OptionID,
		Rating:        req.Rating,
		Region:        req.Region,
		AgeBracket:    req.AgeBracket,
		Gender:        req.Gender,
	})
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Vote:    vote,
		Message: "Vote recorded",
	})
}

// UpdateVote handles PUT /polls/:id/votes
func (h *VotingHandler) UpdateVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	participant, ok := participantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.svc.UpdateVote(r.Context(), ledger.CastVoteInput{
		PollID:        pollID,
		ParticipantID: participant,
		OptionID:      req.OptionID,
		Rating:        req.Rating,
	})
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Vote:    vote,
		Message: "Vote updated",
	})
}

// RetractVote handles DELETE /polls/:id/votes
func (h *VotingHandler) RetractVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	participant, ok := participantFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.RetractVote(r.Context(), pollID, participant); err != nil {
		middleware.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMyVote handles GET /polls/:id/votes
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	participant, ok := participantFromRequest(w, r)
	if !ok {
		return
	}

	vote, err := h.svc.GetVote(r.Context(), pollID, participant)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote)
}
