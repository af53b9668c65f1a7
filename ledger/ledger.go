// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/models"
	"github.com/civicpulse/ledger/store"
)

// Service is the ledger: the business rules that govern vote casting and
// petition signing. It validates lifecycle state before touching the
// store, translates store errors into the caller-facing taxonomy, and
// publishes change events. It holds no state of its own.
type Service struct {
	store *store.Store
	bus   *broadcast.Broadcaster
}

func New(st *store.Store, bus *broadcast.Broadcaster) *Service {
	return &Service{store: st, bus: bus}
}

// publish sends an event, logging rather than propagating failures:
// delivery is best effort and never blocks a committed write.
func (s *Service) publish(topic, eventType string, payload any) {
	err := s.bus.Publish(topic, broadcast.Event{Type: eventType, Payload: payload})
	if err != nil {
		slog.Error("failed to publish event", "topic", topic, "type", eventType, "error", err)
	}
}

// isDomainErr reports whether err is one of the typed ledger/store
// errors, as opposed to an I/O failure.
func isDomainErr(err error) bool {
	for _, domain := range []error{
		models.ErrDuplicateKey, models.ErrNotFound, models.ErrConstraintViolation,
		models.ErrPollNotFound, models.ErrPollClosed, models.ErrPollHasVotes,
		models.ErrInvalidOption, models.ErrAlreadyVoted, models.ErrVoteNotFound,
		models.ErrPetitionNotFound, models.ErrPetitionNotActive, models.ErrAlreadySigned,
		models.ErrInvalidTransition, models.ErrInvalidRequest,
	} {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}

// CreatePoll validates the requested shape and stores the poll with its
// option set. Rating and reaction polls get their fixed enumerated sets
// installed here; choice kinds must bring 2-6 labels (exactly 2 for
// binary). A PollCreated announcement goes out on the feed topic.
func (s *Service) CreatePoll(ctx context.Context, req models.CreatePollRequest) (models.PollWithOptions, error) {
	if req.Prompt == "" {
		return models.PollWithOptions{}, fmt.Errorf("%w: prompt is required", models.ErrInvalidRequest)
	}

	var labels []string
	switch req.Kind {
	case models.KindBinary:
		labels = req.Options
		if len(labels) == 0 {
			labels = []string{"Yes", "No"}
		}
		if len(labels) != 2 {
			return models.PollWithOptions{}, fmt.Errorf("%w: binary polls need exactly 2 options", models.ErrInvalidRequest)
		}
	case models.KindChoice:
		labels = req.Options
		if len(labels) < 2 || len(labels) > 6 {
			return models.PollWithOptions{}, fmt.Errorf("%w: choice polls need 2-6 options", models.ErrInvalidRequest)
		}
	case models.KindRating:
		for i := 1; i <= 10; i++ {
			labels = append(labels, strconv.Itoa(i))
		}
	case models.KindReaction:
		labels = models.ReactionLabels
	default:
		return models.PollWithOptions{}, fmt.Errorf("%w: unknown poll kind %q", models.ErrInvalidRequest, req.Kind)
	}

	now := time.Now()
	poll := models.Poll{
		ID:        uuid.NewString(),
		Prompt:    req.Prompt,
		Kind:      req.Kind,
		OpensAt:   now,
		ClosesAt:  now.AddDate(0, 1, 0),
		Active:    true,
		CreatedAt: now,
	}
	if req.OpensAt != nil {
		poll.OpensAt = *req.OpensAt
	}
	if req.ClosesAt != nil {
		poll.ClosesAt = *req.ClosesAt
	}
	if !poll.ClosesAt.After(poll.OpensAt) {
		return models.PollWithOptions{}, fmt.Errorf("%w: closes_at must be after opens_at", models.ErrInvalidRequest)
	}

	options := make([]models.Option, len(labels))
	for i, label := range labels {
		options[i] = models.Option{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			Label:    label,
			Position: i + 1,
		}
	}

	if err := s.store.CreatePoll(ctx, poll, options); err != nil {
		slog.Error("failed to create poll", "error", err)
		return models.PollWithOptions{}, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "kind", poll.Kind)
	s.publish(broadcast.TopicFeed, models.EventPollCreated, models.AnnouncementPayload{
		ID:    poll.ID,
		Title: poll.Prompt,
	})

	return models.PollWithOptions{Poll: poll, Options: options}, nil
}

// GetPoll is an idempotent read: on a non-domain failure it is retried
// once before the error is surfaced.
func (s *Service) GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	p, err := s.store.GetPollWithOptions(ctx, pollID)
	if err != nil && !isDomainErr(err) {
		p, err = s.store.GetPollWithOptions(ctx, pollID)
	}
	if errors.Is(err, models.ErrNotFound) {
		return models.PollWithOptions{}, models.ErrPollNotFound
	}
	return p, err
}

// UpdatePoll changes a poll's prompt, active flag, or option set. Without
// the admin override the store refuses once votes exist. A replacement
// option set is validated against the poll's kind; rating and reaction
// sets are fixed and cannot be replaced. With the override, replacing
// options discards the votes cast on the old set.
func (s *Service) UpdatePoll(ctx context.Context, pollID string, req models.UpdatePollRequest, override bool) (models.Poll, error) {
	var replace []models.Option
	if req.Options != nil {
		pw, err := s.GetPoll(ctx, pollID)
		if err != nil {
			return models.Poll{}, err
		}
		switch pw.Poll.Kind {
		case models.KindBinary:
			if len(req.Options) != 2 {
				return models.Poll{}, fmt.Errorf("%w: binary polls need exactly 2 options", models.ErrInvalidRequest)
			}
		case models.KindChoice:
			if len(req.Options) < 2 || len(req.Options) > 6 {
				return models.Poll{}, fmt.Errorf("%w: choice polls need 2-6 options", models.ErrInvalidRequest)
			}
		default:
			return models.Poll{}, fmt.Errorf("%w: %s polls have a fixed option set", models.ErrInvalidRequest, pw.Poll.Kind)
		}
		replace = make([]models.Option, len(req.Options))
		for i, label := range req.Options {
			replace[i] = models.Option{
				ID:       uuid.NewString(),
				PollID:   pollID,
				Label:    label,
				Position: i + 1,
			}
		}
	}

	poll, err := s.store.UpdatePoll(ctx, pollID, req, replace, override)
	if errors.Is(err, models.ErrNotFound) {
		return models.Poll{}, models.ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, err
	}
	slog.Info("poll updated", "poll_id", pollID, "override", override)
	return poll, nil
}

// DeletePoll removes a poll; its votes go with it.
func (s *Service) DeletePoll(ctx context.Context, pollID string) error {
	err := s.store.DeletePoll(ctx, pollID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrPollNotFound
	}
	if err != nil {
		return err
	}
	slog.Info("poll deleted", "poll_id", pollID)
	return nil
}
