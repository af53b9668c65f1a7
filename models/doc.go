// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: prompt, kind, options, opens_at, closes_at
  - UpdatePollRequest: prompt, active, replacement options (all optional)
  - CastVoteRequest: option_id or rating, plus optional demographics
  - CreatePetitionRequest: title, body, scope, goal, milestones
  - SignPetitionRequest: optional message
  - UpdatePetitionStatusRequest: status, note

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, admin_key
  - CreatePetitionResponse: petition_id, admin_key
  - ParticipantResponse: participant_token
  - CastVoteResponse: vote, message
  - SignPetitionResponse: signature, message
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Poll: prompt, kind, voting window, cached vote_count
  - Option: poll option with label and display position
  - Vote: one per (poll, participant), with optional demographics
  - Petition: goal, status, cached signature_count
  - Milestone: signature threshold with label
  - TimelineEntry: append-only petition history record
  - Signature: one per (petition, participant)

Participant IDs are never serialized; both Vote and Signature tag the
field with json:"-".

# Read Models

Aggregation results:

  - TallyResult / OptionTally: per-option counts and percentages
  - Breakdown: dimension value → option id → count
  - SentimentResult: scalar score plus positive/negative/neutral counts

# Constants

Poll kinds:

	KindBinary   = "binary"
	KindChoice   = "choice"
	KindRating   = "rating"
	KindReaction = "reaction"

Petition statuses:

	PetitionActive    = "active"
	PetitionSubmitted = "submitted"
	PetitionResolved  = "resolved"
	PetitionRejected  = "rejected"

Petition scopes:

	ScopeLocal    = "local"
	ScopeRegional = "regional"
	ScopeNational = "national"

# Errors

errors.go defines the typed error taxonomy shared by the store, the
ledger service, and the HTTP layer. Handlers map these onto status
codes in middleware.DomainError; a rejected write is always visible to
the caller, never silently dropped.
*/
package models
