// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/civicpulse/ledger/aggregate"
	"github.com/civicpulse/ledger/middleware"
)

type ResultsHandler struct {
	agg *aggregate.Engine
}

func NewResultsHandler(agg *aggregate.Engine) *ResultsHandler {
	return &ResultsHandler{agg: agg}
}

// filterFromQuery builds the demographic filter from query parameters.
func filterFromQuery(r *http.Request) aggregate.Filter {
	q := r.URL.Query()
	return aggregate.Filter{
		Region:     q.Get("region"),
		AgeBracket: q.Get("age_bracket"),
		Gender:     q.Get("gender"),
	}
}

// GetTally handles GET /polls/:id/tally
// Always answers for a known poll, even with zero votes.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	tally, err := h.agg.Tally(r.Context(), pollID, filterFromQuery(r))
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// GetBreakdown handles GET /polls/:id/breakdown?dimension=region
func (h *ResultsHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	dimension := r.URL.Query().Get("dimension")
	if dimension == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dimension query parameter is required")
		return
	}

	breakdown, err := h.agg.Breakdown(r.Context(), pollID, dimension, filterFromQuery(r))
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, breakdown)
}

// GetSentiment handles GET /polls/:id/sentiment
func (h *ResultsHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	sentiment, err := h.agg.Sentiment(r.Context(), pollID, filterFromQuery(r))
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sentiment)
}
