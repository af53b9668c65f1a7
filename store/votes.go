// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/civicpulse/ledger/models"
)

// CreateVote inserts a vote and bumps the poll's cached counter in the
// same transaction, returning the new total. The compound UNIQUE
// constraint is the only duplicate check; a violation surfaces as
// ErrDuplicateKey.
func (s *Store) CreateVote(ctx context.Context, v models.Vote) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, participant_id, option_id, rating, region, age_bracket, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, v.ID, v.PollID, v.ParticipantID, v.OptionID, v.Rating, v.Region, v.AgeBracket, v.Gender, v.CreatedAt)
	if err != nil {
		return 0, classify(err)
	}

	var newTotal int
	err = tx.QueryRowContext(ctx, `
		UPDATE poll SET vote_count = vote_count + 1 WHERE id = $1
		RETURNING vote_count
	`, v.PollID).Scan(&newTotal)
	if err != nil {
		return 0, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newTotal, nil
}

// GetVote loads a participant's vote on a poll.
func (s *Store) GetVote(ctx context.Context, pollID, participantID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT id, poll_id, participant_id, option_id, rating, region, age_bracket, gender, created_at
		FROM vote
		WHERE poll_id = $1 AND participant_id = $2
	`, pollID, participantID).Scan(
		&v.ID, &v.PollID, &v.ParticipantID, &v.OptionID, &v.Rating,
		&v.Region, &v.AgeBracket, &v.Gender, &v.CreatedAt,
	)
	if err != nil {
		return models.Vote{}, classify(err)
	}
	return v, nil
}

// UpdateVote changes the chosen option and rating of an existing vote,
// returning the updated vote and the poll's current total. The update
// itself leaves the counter alone, but the total is read in the same
// transaction so event payloads never carry a stale count.
func (s *Store) UpdateVote(ctx context.Context, pollID, participantID, optionID string, rating *int) (models.Vote, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Vote{}, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE vote SET option_id = $1, rating = $2
		WHERE poll_id = $3 AND participant_id = $4
	`, optionID, rating, pollID, participantID)
	if err != nil {
		return models.Vote{}, 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Vote{}, 0, err
	}
	if n == 0 {
		return models.Vote{}, 0, models.ErrNotFound
	}

	var v models.Vote
	err = tx.QueryRowContext(ctx, `
		SELECT id, poll_id, participant_id, option_id, rating, region, age_bracket, gender, created_at
		FROM vote
		WHERE poll_id = $1 AND participant_id = $2
	`, pollID, participantID).Scan(
		&v.ID, &v.PollID, &v.ParticipantID, &v.OptionID, &v.Rating,
		&v.Region, &v.AgeBracket, &v.Gender, &v.CreatedAt,
	)
	if err != nil {
		return models.Vote{}, 0, classify(err)
	}

	var total int
	err = tx.QueryRowContext(ctx, `SELECT vote_count FROM poll WHERE id = $1`, pollID).Scan(&total)
	if err != nil {
		return models.Vote{}, 0, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Vote{}, 0, err
	}
	return v, total, nil
}

// DeleteVote removes a participant's vote and decrements the counter in
// the same transaction, returning the new total.
func (s *Store) DeleteVote(ctx context.Context, pollID, participantID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM vote WHERE poll_id = $1 AND participant_id = $2
	`, pollID, participantID)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, models.ErrNotFound
	}

	var newTotal int
	err = tx.QueryRowContext(ctx, `
		UPDATE poll SET vote_count = vote_count - 1 WHERE id = $1
		RETURNING vote_count
	`, pollID).Scan(&newTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newTotal, nil
}
