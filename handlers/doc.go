// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ledger API.

# Handler Types

Each handler is a struct with service and config dependencies:

  - PollHandler: Poll lifecycle (create, read, edit, delete)
  - VotingHandler: Participant registration and vote operations
  - PetitionHandler: Petition lifecycle and signing
  - ResultsHandler: Tally, breakdown, and sentiment reads
  - EventsHandler: Server-Sent Events bridge to the broadcaster

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(svc, cfg)

# Identity

Participants are anonymous tokens, issued at registration and carried
in the X-Participant-Token header. Creating a poll or petition returns
an admin key; administrative operations carry it in X-Admin-Key.

# Voting Flow

	POST   /participants        → RegisterParticipant (returns token)
	POST   /polls/{id}/votes    → CastVote (one per participant)
	PUT    /polls/{id}/votes    → UpdateVote (while the poll is open)
	DELETE /polls/{id}/votes    → RetractVote
	GET    /polls/{id}/votes    → GetMyVote

# Petition Flow

	POST /petitions                  → CreatePetition (returns admin_key)
	POST /petitions/{id}/signatures  → SignPetition (one per participant)
	POST /petitions/{id}/status      → UpdateStatus (admin)
	POST /petitions/{id}/reopen      → Reopen (admin)

# Error Mapping

Handlers delegate typed errors to middleware.DomainError: not-found
errors become 404, lifecycle and duplicate conflicts 409, validation
failures 400. Duplicate votes and signatures are therefore always
visible rejections.

# Event Stream

GET /events?topic=poll:<id> upgrades to a Server-Sent Events stream.
Delivery is best effort; a client that misses events re-fetches the
tally or petition detail to reconcile.
*/
package handlers
