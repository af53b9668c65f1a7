// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - poll: Poll metadata, voting window, cached vote_count
  - poll_option: Voting options per poll
  - vote: One vote per (poll, participant)
  - petition: Petition metadata, status, cached signature_count
  - petition_milestone: Signature thresholds per petition
  - petition_timeline: Append-only petition history
  - signature: One signature per (petition, participant)

# Relationships

	poll 1──* poll_option
	poll 1──* vote
	petition 1──* petition_milestone
	petition 1──* petition_timeline
	petition 1──* signature

All foreign keys use ON DELETE CASCADE.

# Invariants Enforced Here

The compound UNIQUE constraints on vote(poll_id, participant_id) and
signature(petition_id, participant_id) are the only enforcement of
one-vote-per-participant and one-signature-per-participant. The
application never pre-checks; it inserts and classifies the violation.

CHECK constraints pin the enumerations (poll kind, petition scope and
status) and the 1-10 rating range.

# Portability

The DDL works unchanged on PostgreSQL and SQLite: CURRENT_TIMESTAMP
instead of NOW(), no serial columns, timestamps always written by the
application.
*/
package db
