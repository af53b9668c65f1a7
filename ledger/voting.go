// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/models"
)

// CastVoteInput carries everything needed to record a vote.
type CastVoteInput struct {
	PollID        string
	ParticipantID string
	OptionID      string
	Rating        *int
	Region        *string
	AgeBracket    *string
	Gender        *string
}

// CastVote records exactly one vote per (participant, poll). The insert
// goes straight to the store; there is deliberately no prior existence
// check, the UNIQUE constraint is the only source of truth for "already
// voted" (a read-then-insert pair would race under concurrent casts).
func (s *Service) CastVote(ctx context.Context, in CastVoteInput) (models.Vote, error) {
	pw, err := s.loadOpenPoll(ctx, in.PollID)
	if err != nil {
		return models.Vote{}, err
	}

	optionID, err := resolveOption(pw, in.OptionID, in.Rating)
	if err != nil {
		return models.Vote{}, err
	}

	vote := models.Vote{
		ID:            uuid.NewString(),
		PollID:        in.PollID,
		ParticipantID: in.ParticipantID,
		OptionID:      optionID,
		Rating:        in.Rating,
		Region:        in.Region,
		AgeBracket:    in.AgeBracket,
		Gender:        in.Gender,
		CreatedAt:     time.Now(),
	}

	newTotal, err := s.store.CreateVote(ctx, vote)
	if errors.Is(err, models.ErrDuplicateKey) {
		return models.Vote{}, models.ErrAlreadyVoted
	}
	if err != nil {
		slog.Error("failed to cast vote", "poll_id", in.PollID, "error", err)
		return models.Vote{}, err
	}

	slog.Info("vote cast", "poll_id", in.PollID, "option_id", optionID, "total", newTotal)
	s.publish(broadcast.PollTopic(in.PollID), models.EventVoteCast, models.VoteCastPayload{
		PollID:   in.PollID,
		OptionID: optionID,
		NewTotal: newTotal,
	})

	return vote, nil
}

// UpdateVote changes a participant's existing vote while the poll is
// still open.
func (s *Service) UpdateVote(ctx context.Context, in CastVoteInput) (models.Vote, error) {
	pw, err := s.loadOpenPoll(ctx, in.PollID)
	if err != nil {
		return models.Vote{}, err
	}

	optionID, err := resolveOption(pw, in.OptionID, in.Rating)
	if err != nil {
		return models.Vote{}, err
	}

	vote, total, err := s.store.UpdateVote(ctx, in.PollID, in.ParticipantID, optionID, in.Rating)
	if errors.Is(err, models.ErrNotFound) {
		return models.Vote{}, models.ErrVoteNotFound
	}
	if err != nil {
		slog.Error("failed to update vote", "poll_id", in.PollID, "error", err)
		return models.Vote{}, err
	}

	slog.Info("vote updated", "poll_id", in.PollID, "option_id", optionID, "total", total)
	s.publish(broadcast.PollTopic(in.PollID), models.EventVoteUpdated, models.VoteUpdatedPayload{
		PollID:   in.PollID,
		OptionID: optionID,
		Total:    total,
	})

	return vote, nil
}

// RetractVote deletes a participant's vote while the poll is still open
// and decrements the counter symmetrically.
func (s *Service) RetractVote(ctx context.Context, pollID, participantID string) error {
	if _, err := s.loadOpenPoll(ctx, pollID); err != nil {
		return err
	}

	newTotal, err := s.store.DeleteVote(ctx, pollID, participantID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrVoteNotFound
	}
	if err != nil {
		slog.Error("failed to retract vote", "poll_id", pollID, "error", err)
		return err
	}

	slog.Info("vote retracted", "poll_id", pollID, "total", newTotal)
	s.publish(broadcast.PollTopic(pollID), models.EventVoteRetracted, models.VoteRetractedPayload{
		PollID:   pollID,
		NewTotal: newTotal,
	})

	return nil
}

// GetVote returns the caller's own vote on a poll.
func (s *Service) GetVote(ctx context.Context, pollID, participantID string) (models.Vote, error) {
	v, err := s.store.GetVote(ctx, pollID, participantID)
	if err != nil && !isDomainErr(err) {
		v, err = s.store.GetVote(ctx, pollID, participantID)
	}
	if errors.Is(err, models.ErrNotFound) {
		return models.Vote{}, models.ErrVoteNotFound
	}
	return v, err
}

// loadOpenPoll loads a poll and enforces the Open lifecycle state:
// active and now within [opens_at, closes_at).
func (s *Service) loadOpenPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	pw, err := s.store.GetPollWithOptions(ctx, pollID)
	if errors.Is(err, models.ErrNotFound) {
		return models.PollWithOptions{}, models.ErrPollNotFound
	}
	if err != nil {
		return models.PollWithOptions{}, err
	}
	if !pw.Poll.IsOpen(time.Now()) {
		return models.PollWithOptions{}, models.ErrPollClosed
	}
	return pw, nil
}

// resolveOption validates the chosen option against the poll's option
// set. For rating polls the rating value picks the option labeled with
// it; for every other kind the option id must be a member of the set.
func resolveOption(pw models.PollWithOptions, optionID string, rating *int) (string, error) {
	if pw.Poll.Kind == models.KindRating {
		if rating == nil || *rating < 1 || *rating > 10 {
			return "", models.ErrInvalidOption
		}
		label := strconv.Itoa(*rating)
		for _, opt := range pw.Options {
			if opt.Label == label {
				return opt.ID, nil
			}
		}
		return "", models.ErrInvalidOption
	}

	for _, opt := range pw.Options {
		if opt.ID == optionID {
			return opt.ID, nil
		}
	}
	return "", models.ErrInvalidOption
}
