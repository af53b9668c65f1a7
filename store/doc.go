// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the entity store for polls, votes, petitions, and
signatures.

# Responsibilities

The store owns the two guarantees the rest of the system leans on:

  - Uniqueness: one vote per (poll, participant) and one signature per
    (petition, participant), enforced by the database constraints and
    surfaced as ErrDuplicateKey.
  - Counter consistency: poll.vote_count and petition.signature_count
    are updated in the same transaction as the row they count, so the
    cached counter can never drift from the row count.

Lifecycle decisions (is the poll open, is the petition active, is the
transition legal) belong to the ledger service, not here.

# Error Surface

Driver errors are classified into the models error taxonomy:

  - ErrDuplicateKey: unique constraint violations
  - ErrNotFound: missing rows (sql.ErrNoRows or zero rows affected)
  - ErrConstraintViolation: foreign key and CHECK violations

Classification is by driver message, covering both lib/pq and the
SQLite driver.

# Concurrency

Writes that must be atomic run in explicit transactions with the
counter update RETURNING the new value. Status changes compare the old
status in the UPDATE itself, so two racing transitions cannot both
win; the loser sees zero rows.
*/
package store
