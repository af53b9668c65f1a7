// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/civicpulse/ledger/aggregate"
	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/cliparse"
	"github.com/civicpulse/ledger/handlers"
	"github.com/civicpulse/ledger/ledger"
	"github.com/civicpulse/ledger/middleware"
	"github.com/civicpulse/ledger/store"
)

func NewRouter(db *sql.DB, bus *broadcast.Broadcaster, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire the core: one store, one ledger service, one aggregation
	// engine, one broadcaster per process.
	st := store.New(db)
	svc := ledger.New(st, bus)
	agg := aggregate.NewEngine(st.DB())

	pollHandler := handlers.NewPollHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	petitionHandler := handlers.NewPetitionHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(agg)
	eventsHandler := handlers.NewEventsHandler(bus)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Participant registration
	mux.HandleFunc("POST /participants", middleware.WithLogging(votingHandler.RegisterParticipant))

	// Poll management
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("PATCH /polls/{id}", middleware.WithLogging(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting operations
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("PUT /polls/{id}/votes", middleware.WithLogging(votingHandler.UpdateVote))
	mux.HandleFunc("DELETE /polls/{id}/votes", middleware.WithLogging(votingHandler.RetractVote))
	mux.HandleFunc("GET /polls/{id}/votes", middleware.WithLogging(votingHandler.GetMyVote))

	// Aggregated reads
	mux.HandleFunc("GET /polls/{id}/tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /polls/{id}/breakdown", middleware.WithLogging(resultsHandler.GetBreakdown))
	mux.HandleFunc("GET /polls/{id}/sentiment", middleware.WithLogging(resultsHandler.GetSentiment))

	// Petitions
	mux.HandleFunc("POST /petitions", middleware.WithLogging(petitionHandler.CreatePetition))
	mux.HandleFunc("GET /petitions/{id}", middleware.WithLogging(petitionHandler.GetPetition))
	mux.HandleFunc("POST /petitions/{id}/signatures", middleware.WithLogging(petitionHandler.SignPetition))
	mux.HandleFunc("POST /petitions/{id}/status", middleware.WithLogging(petitionHandler.UpdateStatus))
	mux.HandleFunc("POST /petitions/{id}/reopen", middleware.WithLogging(petitionHandler.Reopen))

	// Real-time event stream (SSE); logging middleware would hold the
	// connection line in the log until disconnect, so it is skipped here
	mux.HandleFunc("GET /events", eventsHandler.Stream)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("civic-ledger API v1"))
	})

	return mux
}
