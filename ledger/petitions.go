// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/milestone"
	"github.com/civicpulse/ledger/models"
)

// legalTransitions is the petition status machine. Status only ever
// moves forward; reopening a petition is a separate administrative
// operation, never part of this table.
var legalTransitions = map[string][]string{
	models.PetitionActive:    {models.PetitionSubmitted, models.PetitionRejected},
	models.PetitionSubmitted: {models.PetitionResolved, models.PetitionRejected},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SignPetitionInput carries everything needed to record a signature.
type SignPetitionInput struct {
	PetitionID    string
	ParticipantID string
	Message       *string
}

// CreatePetition validates shape (scope, positive goal, milestones at or
// below the goal) and stores the petition. Milestones are sorted before
// storage so later reads can rely on ascending order. A PetitionCreated
// announcement goes out on the feed topic.
func (s *Service) CreatePetition(ctx context.Context, req models.CreatePetitionRequest) (models.PetitionDetail, error) {
	if req.Title == "" {
		return models.PetitionDetail{}, fmt.Errorf("%w: title is required", models.ErrInvalidRequest)
	}
	switch req.Scope {
	case models.ScopeLocal, models.ScopeRegional, models.ScopeNational:
	default:
		return models.PetitionDetail{}, fmt.Errorf("%w: unknown scope %q", models.ErrInvalidRequest, req.Scope)
	}
	if req.SignatureGoal <= 0 {
		return models.PetitionDetail{}, fmt.Errorf("%w: signature goal must be positive", models.ErrInvalidRequest)
	}

	milestones := make([]models.Milestone, len(req.Milestones))
	copy(milestones, req.Milestones)
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].Threshold < milestones[j].Threshold })
	for i, m := range milestones {
		if m.Threshold <= 0 || m.Threshold > req.SignatureGoal {
			return models.PetitionDetail{}, fmt.Errorf("%w: milestone threshold %d outside (0, goal]", models.ErrInvalidRequest, m.Threshold)
		}
		if i > 0 && milestones[i-1].Threshold == m.Threshold {
			return models.PetitionDetail{}, fmt.Errorf("%w: duplicate milestone threshold %d", models.ErrInvalidRequest, m.Threshold)
		}
	}

	petition := models.Petition{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Body:            req.Body,
		Scope:           req.Scope,
		TargetAuthority: req.TargetAuthority,
		SignatureGoal:   req.SignatureGoal,
		Status:          models.PetitionActive,
		Urgent:          req.Urgent,
		CreatedAt:       time.Now(),
	}

	if err := s.store.CreatePetition(ctx, petition, milestones); err != nil {
		slog.Error("failed to create petition", "error", err)
		return models.PetitionDetail{}, err
	}

	slog.Info("petition created", "petition_id", petition.ID, "goal", petition.SignatureGoal)
	s.publish(broadcast.TopicFeed, models.EventPetitionCreated, models.AnnouncementPayload{
		ID:    petition.ID,
		Title: petition.Title,
	})

	return s.GetPetition(ctx, petition.ID)
}

// GetPetition returns a petition with its milestones and timeline.
// Idempotent read: retried once on non-domain failure.
func (s *Service) GetPetition(ctx context.Context, petitionID string) (models.PetitionDetail, error) {
	detail, err := s.loadPetitionDetail(ctx, petitionID)
	if err != nil && !isDomainErr(err) {
		detail, err = s.loadPetitionDetail(ctx, petitionID)
	}
	if errors.Is(err, models.ErrNotFound) {
		return models.PetitionDetail{}, models.ErrPetitionNotFound
	}
	return detail, err
}

func (s *Service) loadPetitionDetail(ctx context.Context, petitionID string) (models.PetitionDetail, error) {
	petition, err := s.store.GetPetition(ctx, petitionID)
	if err != nil {
		return models.PetitionDetail{}, err
	}
	milestones, err := s.store.GetMilestones(ctx, petitionID)
	if err != nil {
		return models.PetitionDetail{}, err
	}
	timeline, err := s.store.GetTimeline(ctx, petitionID)
	if err != nil {
		return models.PetitionDetail{}, err
	}
	return models.PetitionDetail{Petition: petition, Milestones: milestones, Timeline: timeline}, nil
}

// SignPetition records exactly one signature per (participant, petition).
// As with CastVote there is no existence pre-check; the UNIQUE constraint
// decides. On success the milestone engine evaluates the new count and
// the results ride along on the SignatureAdded event. Reaching the goal
// emits GoalReached but never changes status: submission stays an
// administrative decision.
func (s *Service) SignPetition(ctx context.Context, in SignPetitionInput) (models.Signature, error) {
	petition, err := s.store.GetPetition(ctx, in.PetitionID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Signature{}, models.ErrPetitionNotFound
	}
	if err != nil {
		return models.Signature{}, err
	}
	if petition.Status != models.PetitionActive {
		return models.Signature{}, models.ErrPetitionNotActive
	}

	sig := models.Signature{
		ID:            uuid.NewString(),
		PetitionID:    in.PetitionID,
		ParticipantID: in.ParticipantID,
		Message:       in.Message,
		CreatedAt:     time.Now(),
	}

	newCount, err := s.store.CreateSignature(ctx, sig)
	if errors.Is(err, models.ErrDuplicateKey) {
		return models.Signature{}, models.ErrAlreadySigned
	}
	if err != nil {
		slog.Error("failed to sign petition", "petition_id", in.PetitionID, "error", err)
		return models.Signature{}, err
	}

	milestones, err := s.store.GetMilestones(ctx, in.PetitionID)
	if err != nil {
		// The signature is committed; milestone decoration is best effort.
		slog.Error("failed to load milestones", "petition_id", in.PetitionID, "error", err)
		milestones = nil
	}

	result := milestone.Evaluate(newCount-1, newCount, milestones)
	goalReached := milestone.GoalReached(newCount-1, newCount, petition.SignatureGoal)

	payload := models.SignatureAddedPayload{
		PetitionID:  in.PetitionID,
		NewCount:    newCount,
		GoalReached: goalReached,
	}
	if crossed, ok := result.Highest(); ok {
		payload.MilestoneCrossed = &crossed
		if err := s.store.AppendTimeline(ctx, in.PetitionID, "Milestone Reached", crossed.Label); err != nil {
			slog.Error("failed to append milestone timeline entry", "petition_id", in.PetitionID, "error", err)
		}
	}

	slog.Info("petition signed", "petition_id", in.PetitionID, "count", newCount, "goal_reached", goalReached)
	s.publish(broadcast.PetitionTopic(in.PetitionID), models.EventSignatureAdded, payload)
	if goalReached {
		s.publish(broadcast.PetitionTopic(in.PetitionID), models.EventGoalReached, models.GoalReachedPayload{
			PetitionID: in.PetitionID,
			Count:      newCount,
			Goal:       petition.SignatureGoal,
		})
	}

	return sig, nil
}

// UpdatePetitionStatus applies an administrative status transition. Only
// the forward moves in the transition table are legal; everything else
// fails with ErrInvalidTransition, including a transition raced out by a
// concurrent one.
func (s *Service) UpdatePetitionStatus(ctx context.Context, petitionID, newStatus, note string) (models.PetitionDetail, error) {
	switch newStatus {
	case models.PetitionSubmitted, models.PetitionResolved, models.PetitionRejected:
	default:
		return models.PetitionDetail{}, fmt.Errorf("%w: unknown status %q", models.ErrInvalidRequest, newStatus)
	}

	petition, err := s.store.GetPetition(ctx, petitionID)
	if errors.Is(err, models.ErrNotFound) {
		return models.PetitionDetail{}, models.ErrPetitionNotFound
	}
	if err != nil {
		return models.PetitionDetail{}, err
	}
	if !transitionAllowed(petition.Status, newStatus) {
		return models.PetitionDetail{}, models.ErrInvalidTransition
	}

	detail := fmt.Sprintf("Status changed from %s to %s", petition.Status, newStatus)
	if note != "" {
		detail += ": " + note
	}
	err = s.store.UpdatePetitionStatus(ctx, petitionID, petition.Status, newStatus, "Status Changed", detail)
	if errors.Is(err, models.ErrNotFound) {
		// Raced by a concurrent transition; the state we validated
		// against is gone.
		return models.PetitionDetail{}, models.ErrInvalidTransition
	}
	if err != nil {
		slog.Error("failed to update petition status", "petition_id", petitionID, "error", err)
		return models.PetitionDetail{}, err
	}

	slog.Info("petition status changed", "petition_id", petitionID, "from", petition.Status, "to", newStatus)
	s.publish(broadcast.PetitionTopic(petitionID), models.EventPetitionStatusChanged, models.StatusChangedPayload{
		PetitionID: petitionID,
		OldStatus:  petition.Status,
		NewStatus:  newStatus,
		Note:       note,
	})

	return s.GetPetition(ctx, petitionID)
}

// ReopenPetition is the explicit administrative escape hatch that moves a
// submitted or terminal petition back to active. Always logged as a
// timeline event; never triggered automatically.
func (s *Service) ReopenPetition(ctx context.Context, petitionID, note string) (models.PetitionDetail, error) {
	petition, err := s.store.GetPetition(ctx, petitionID)
	if errors.Is(err, models.ErrNotFound) {
		return models.PetitionDetail{}, models.ErrPetitionNotFound
	}
	if err != nil {
		return models.PetitionDetail{}, err
	}
	if petition.Status == models.PetitionActive {
		return models.PetitionDetail{}, models.ErrInvalidTransition
	}

	detail := fmt.Sprintf("Reopened from %s by administrative action", petition.Status)
	if note != "" {
		detail += ": " + note
	}
	err = s.store.UpdatePetitionStatus(ctx, petitionID, petition.Status, models.PetitionActive, "Petition Reopened", detail)
	if errors.Is(err, models.ErrNotFound) {
		return models.PetitionDetail{}, models.ErrInvalidTransition
	}
	if err != nil {
		slog.Error("failed to reopen petition", "petition_id", petitionID, "error", err)
		return models.PetitionDetail{}, err
	}

	slog.Info("petition reopened", "petition_id", petitionID, "from", petition.Status)
	s.publish(broadcast.PetitionTopic(petitionID), models.EventPetitionStatusChanged, models.StatusChangedPayload{
		PetitionID: petitionID,
		OldStatus:  petition.Status,
		NewStatus:  models.PetitionActive,
		Note:       note,
	})

	return s.GetPetition(ctx, petitionID)
}
