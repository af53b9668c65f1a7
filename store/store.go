// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/civicpulse/ledger/models"
)

// Store is the entity store for polls, votes, petitions, and signatures.
// It owns the two guarantees the rest of the system leans on: compound
// uniqueness on (participant, poll) and (participant, petition), and
// counter updates that commit in the same transaction as the row they
// count. Callers get ErrDuplicateKey, ErrNotFound, or
// ErrConstraintViolation; lifecycle decisions belong to the ledger service.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read-only consumers (the
// aggregation engine queries it directly).
func (s *Store) DB() *sql.DB {
	return s.db
}

// classify maps driver errors onto the store's error surface. Both the
// Postgres and SQLite drivers are detected by message, the same way the
// duplicate-username check worked before drivers were abstracted out.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") {
		return fmt.Errorf("%w: %s", models.ErrDuplicateKey, msg)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "violates check constraint") {
		return fmt.Errorf("%w: %s", models.ErrConstraintViolation, msg)
	}
	return err
}
