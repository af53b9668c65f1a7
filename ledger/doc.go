// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the business rules for vote casting and
petition signing.

# Service

Service is the single write path. It validates lifecycle state before
touching the store, translates store errors into the caller-facing
taxonomy, and publishes change events after commit:

	svc := ledger.New(store, bus)
	vote, err := svc.CastVote(ctx, ledger.CastVoteInput{...})

# Poll Rules

  - binary: exactly 2 options, defaulting to Yes/No
  - choice: 2-6 caller-supplied options
  - rating: fixed options "1" through "10"; the rating value selects one
  - reaction: fixed five-label set

A poll accepts votes only while open: active and now within
[opens_at, closes_at). Prompt, active flag, and option set are
editable, but edits are refused once votes exist unless the caller
holds the admin key. Rating and reaction option sets are fixed, and an
overridden option replacement discards the votes cast on the old set.

# Petition Rules

Signatures are immutable and only accepted while the petition is
active. Status moves forward only:

	active    → submitted | rejected
	submitted → resolved | rejected

Reaching the signature goal emits GoalReached but never changes
status; submission to the target authority stays an administrative
decision, as does ReopenPetition, the explicit path back to active.

# Duplicates

CastVote and SignPetition do not pre-check for an existing row. The
database UNIQUE constraint is the only source of truth for "already
voted" and "already signed"; a read-then-insert pair would race under
concurrent requests.

# Events

Every committed write publishes to the broadcast bus: VoteCast,
VoteUpdated, VoteRetracted on poll topics; SignatureAdded, GoalReached,
PetitionStatusChanged on petition topics; PollCreated and
PetitionCreated on the feed. Publication is best effort and never
fails the write.
*/
package ledger
