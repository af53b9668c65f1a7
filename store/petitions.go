// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/ledger/models"
)

// CreatePetition inserts a petition, its milestone thresholds, and the
// opening timeline entry in one transaction.
func (s *Store) CreatePetition(ctx context.Context, p models.Petition, milestones []models.Milestone) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO petition (id, title, body, scope, target_authority, signature_count, signature_goal, status, urgent, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Body, p.Scope, p.TargetAuthority, p.SignatureGoal, p.Status, p.Urgent, p.CreatedAt)
	if err != nil {
		return classify(err)
	}

	for _, m := range milestones {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO petition_milestone (petition_id, threshold, label)
			VALUES ($1, $2, $3)
		`, p.ID, m.Threshold, m.Label)
		if err != nil {
			return classify(err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO petition_timeline (id, petition_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), p.ID, "Petition Created", "Petition opened for signatures", p.CreatedAt)
	if err != nil {
		return classify(err)
	}

	return tx.Commit()
}

// GetPetition loads a petition by id.
func (s *Store) GetPetition(ctx context.Context, id string) (models.Petition, error) {
	var p models.Petition
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, scope, target_authority, signature_count, signature_goal, status, urgent, created_at
		FROM petition
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Title, &p.Body, &p.Scope, &p.TargetAuthority,
		&p.SignatureCount, &p.SignatureGoal, &p.Status, &p.Urgent, &p.CreatedAt,
	)
	if err != nil {
		return models.Petition{}, classify(err)
	}
	return p, nil
}

// GetMilestones returns a petition's thresholds in ascending order.
func (s *Store) GetMilestones(ctx context.Context, petitionID string) ([]models.Milestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT threshold, label
		FROM petition_milestone
		WHERE petition_id = $1
		ORDER BY threshold
	`, petitionID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.Threshold, &m.Label); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// GetTimeline returns a petition's timeline entries in append order.
func (s *Store) GetTimeline(ctx context.Context, petitionID string) ([]models.TimelineEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, petition_id, event, detail, created_at
		FROM petition_timeline
		WHERE petition_id = $1
		ORDER BY created_at, id
	`, petitionID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	entries := []models.TimelineEntry{}
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(&e.ID, &e.PetitionID, &e.Event, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendTimeline adds a timeline entry outside any other transaction.
func (s *Store) AppendTimeline(ctx context.Context, petitionID, event, detail string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO petition_timeline (id, petition_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), petitionID, event, detail, time.Now())
	return classify(err)
}

// CreateSignature inserts a signature, bumps the petition's counter, and
// appends the "New Signature" timeline entry, all in one transaction.
// Returns the new signature count.
func (s *Store) CreateSignature(ctx context.Context, sig models.Signature) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO signature (id, petition_id, participant_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sig.ID, sig.PetitionID, sig.ParticipantID, sig.Message, sig.CreatedAt)
	if err != nil {
		return 0, classify(err)
	}

	var newCount int
	err = tx.QueryRowContext(ctx, `
		UPDATE petition SET signature_count = signature_count + 1 WHERE id = $1
		RETURNING signature_count
	`, sig.PetitionID).Scan(&newCount)
	if err != nil {
		return 0, classify(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO petition_timeline (id, petition_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), sig.PetitionID, "New Signature",
		fmt.Sprintf("Total signatures reached: %d", newCount), sig.CreatedAt)
	if err != nil {
		return 0, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newCount, nil
}

// CountSignatures returns the actual signature row count for a petition.
func (s *Store) CountSignatures(ctx context.Context, petitionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signature WHERE petition_id = $1`, petitionID).Scan(&n)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// UpdatePetitionStatus moves a petition from oldStatus to newStatus and
// appends a timeline entry in the same transaction. The status column is
// compared in the UPDATE itself, so two racing transitions cannot both
// win; the loser sees zero rows and gets ErrNotFound back.
func (s *Store) UpdatePetitionStatus(ctx context.Context, petitionID, oldStatus, newStatus, event, detail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE petition SET status = $1 WHERE id = $2 AND status = $3
	`, newStatus, petitionID, oldStatus)
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

	_, err = tx.ExecContext(ctx, `
		INSERT INTO petition_timeline (id, petition_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), petitionID, event, detail, time.Now())
	if err != nil {
		return classify(err)
	}

	return tx.Commit()
}
