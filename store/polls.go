// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/civicpulse/ledger/models"
)

// CreatePoll inserts a poll and its option set in one transaction.
func (s *Store) CreatePoll(ctx context.Context, poll models.Poll, options []models.Option) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, prompt, kind, opens_at, closes_at, active, vote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, poll.ID, poll.Prompt, poll.Kind, poll.OpensAt, poll.ClosesAt, poll.Active, poll.CreatedAt)
	if err != nil {
		return classify(err)
	}

	for _, opt := range options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (id, poll_id, label, position)
			VALUES ($1, $2, $3, $4)
		`, opt.ID, poll.ID, opt.Label, opt.Position)
		if err != nil {
			return classify(err)
		}
	}

	return tx.Commit()
}

// GetPoll loads a poll by id.
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	var p models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, prompt, kind, opens_at, closes_at, active, vote_count, created_at
		FROM poll
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Prompt, &p.Kind, &p.OpensAt, &p.ClosesAt, &p.Active, &p.VoteCount, &p.CreatedAt)
	if err != nil {
		return models.Poll{}, classify(err)
	}
	return p, nil
}

// GetPollOptions returns a poll's option set in display order.
func (s *Store) GetPollOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, label, position
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Label, &opt.Position); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// GetPollWithOptions loads a poll and its options.
func (s *Store) GetPollWithOptions(ctx context.Context, id string) (models.PollWithOptions, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	options, err := s.GetPollOptions(ctx, id)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	return models.PollWithOptions{Poll: poll, Options: options}, nil
}

// UpdatePoll applies prompt/active changes and, when replace is non-nil,
// swaps the option set in the same transaction. Unless override is set,
// the update is refused once votes exist; the guard and the update run in
// one statement so a concurrent first vote cannot slip between them.
// Replacing options cascades away any votes on the old set, so the cached
// counter is recomputed before commit.
func (s *Store) UpdatePoll(ctx context.Context, id string, upd models.UpdatePollRequest, replace []models.Option, override bool) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, err
	}
	defer tx.Rollback()

	query := `
		UPDATE poll
		SET prompt = COALESCE($1, prompt), active = COALESCE($2, active)
		WHERE id = $3
	`
	args := []any{upd.Prompt, upd.Active, id}
	if !override {
		query += ` AND vote_count = 0`
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Poll{}, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, err
	}
	if n == 0 {
		// Distinguish a missing poll from the vote-count guard.
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM poll WHERE id = $1`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Poll{}, models.ErrNotFound
		}
		if err != nil {
			return models.Poll{}, classify(err)
		}
		return models.Poll{}, models.ErrPollHasVotes
	}

	if replace != nil {
		_, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, id)
		if err != nil {
			return models.Poll{}, classify(err)
		}
		for _, opt := range replace {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO poll_option (id, poll_id, label, position)
				VALUES ($1, $2, $3, $4)
			`, opt.ID, id, opt.Label, opt.Position)
			if err != nil {
				return models.Poll{}, classify(err)
			}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE poll
			SET vote_count = (SELECT COUNT(*) FROM vote WHERE poll_id = $1)
			WHERE id = $1
		`, id)
		if err != nil {
			return models.Poll{}, classify(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, err
	}
	return s.GetPoll(ctx, id)
}

// DeletePoll removes a poll; votes and options cascade at the schema level.
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountVotes returns the actual vote row count for a poll, independent of
// the cached counter.
func (s *Store) CountVotes(ctx context.Context, pollID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&n)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}
