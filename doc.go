// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the CivicPulse ledger API server.

The ledger is the system of record for community polls and petitions:
it records votes and signatures, keeps running aggregates consistent
with the underlying rows, and pushes change events to subscribed
clients in real time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:ledger.db ADMIN_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3410 -d "postgres://..." -t postgres --admin-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3410)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - EVENT_BUFFER (-b): Per-subscriber event buffer size (default: 16)

# Architecture

The server is layered, with the write path owned by a single service:

  - handlers: HTTP request handlers (polls, voting, petitions, results, events)
  - router: Route definitions using Go 1.22+ routing
  - ledger: Business rules (lifecycle checks, event publication)
  - store: Entity store; uniqueness and counter consistency live here
  - aggregate: Read models (tally, breakdown, sentiment)
  - milestone: Pure threshold-crossing evaluation
  - broadcast: In-process topic fan-out for real-time updates
  - middleware: CORS, logging, JSON and error helpers
  - models: Request/response/domain types and the error taxonomy
  - auth: Tokens, admin keys, IP hashing
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
