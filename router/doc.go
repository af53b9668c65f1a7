// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ledger API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, bus, cfg)

# Endpoints

Health:

	GET /health

Participants:

	POST /participants - Issue an anonymous participant token

Poll management:

	POST   /polls        - Create poll (returns admin_key)
	GET    /polls/{id}   - Poll with options
	PATCH  /polls/{id}   - Edit (admin key overrides the no-votes guard)
	DELETE /polls/{id}   - Delete (admin, cascades to votes)

Voting (requires X-Participant-Token):

	POST   /polls/{id}/votes - Cast
	PUT    /polls/{id}/votes - Update
	DELETE /polls/{id}/votes - Retract
	GET    /polls/{id}/votes - Own vote

Aggregated reads (public, filterable by region/age_bracket/gender):

	GET /polls/{id}/tally
	GET /polls/{id}/breakdown?dimension=region
	GET /polls/{id}/sentiment

Petitions:

	POST /petitions                 - Create (returns admin_key)
	GET  /petitions/{id}            - Detail with milestones and timeline
	POST /petitions/{id}/signatures - Sign
	POST /petitions/{id}/status     - Transition status (admin)
	POST /petitions/{id}/reopen     - Back to active (admin)

Real-time:

	GET /events?topic=poll:<id> - Server-Sent Events stream

# Wiring

The router constructs the core once per process: one store, one ledger
service, one aggregation engine, sharing the broadcaster created in
main. Handlers receive these by injection.
*/
package router
