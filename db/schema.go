// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is kept portable between PostgreSQL and SQLite: CURRENT_TIMESTAMP
// instead of NOW(), no serial columns, timestamps always written by the app.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('binary', 'choice', 'rating', 'reaction')),
    opens_at TIMESTAMP NOT NULL,
    closes_at TIMESTAMP NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    vote_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_active ON poll(active);

-- Poll options
CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id);

-- Votes: one per (poll, participant), enforced here and nowhere else
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL,
    option_id TEXT NOT NULL REFERENCES poll_option(id) ON DELETE CASCADE,
    rating INTEGER CHECK (rating IS NULL OR (rating >= 1 AND rating <= 10)),
    region TEXT,
    age_bracket TEXT,
    gender TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);

-- Petitions
CREATE TABLE IF NOT EXISTS petition (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    scope TEXT NOT NULL CHECK (scope IN ('local', 'regional', 'national')),
    target_authority TEXT NOT NULL,
    signature_count INTEGER NOT NULL DEFAULT 0,
    signature_goal INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'submitted', 'resolved', 'rejected')),
    urgent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_petition_status ON petition(status);

-- Milestone thresholds per petition
CREATE TABLE IF NOT EXISTS petition_milestone (
    petition_id TEXT NOT NULL REFERENCES petition(id) ON DELETE CASCADE,
    threshold INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (petition_id, threshold)
);

-- Append-only petition timeline
CREATE TABLE IF NOT EXISTS petition_timeline (
    id TEXT PRIMARY KEY,
    petition_id TEXT NOT NULL REFERENCES petition(id) ON DELETE CASCADE,
    event TEXT NOT NULL,
    detail TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_petition_timeline_petition_id ON petition_timeline(petition_id);

-- Signatures: one per (petition, participant)
CREATE TABLE IF NOT EXISTS signature (
    id TEXT PRIMARY KEY,
    petition_id TEXT NOT NULL REFERENCES petition(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL,
    message TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (petition_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_signature_petition_id ON signature(petition_id);
`
