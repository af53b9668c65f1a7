// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/models"
	"github.com/civicpulse/ledger/store"
	"github.com/civicpulse/ledger/testutil"
)

func newService(t *testing.T) (*Service, *broadcast.Broadcaster) {
	t.Helper()
	st := store.New(testutil.SetupTestDB(t))
	bus := broadcast.New(16)
	t.Cleanup(bus.Close)
	return New(st, bus), bus
}

func receiveEvent(t *testing.T, sub *broadcast.Subscriber) broadcast.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
		return broadcast.Event{}
	}
}

func TestCreatePollKinds(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("binary defaults to yes/no", func(t *testing.T) {
		pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Stay open later?", Kind: models.KindBinary})
		if err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		if len(pw.Options) != 2 || pw.Options[0].Label != "Yes" || pw.Options[1].Label != "No" {
			t.Errorf("Expected default Yes/No options, got %+v", pw.Options)
		}
	})

	t.Run("rating installs 1-10", func(t *testing.T) {
		pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Rate the proposal", Kind: models.KindRating})
		if err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		if len(pw.Options) != 10 {
			t.Fatalf("Expected 10 rating options, got %d", len(pw.Options))
		}
		for i, opt := range pw.Options {
			if opt.Label != strconv.Itoa(i+1) {
				t.Errorf("Option %d: expected label %d, got %q", i, i+1, opt.Label)
			}
		}
	})

	t.Run("reaction installs fixed set", func(t *testing.T) {
		pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "React to the plan", Kind: models.KindReaction})
		if err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		if len(pw.Options) != len(models.ReactionLabels) {
			t.Fatalf("Expected %d reaction options, got %d", len(models.ReactionLabels), len(pw.Options))
		}
		for i, opt := range pw.Options {
			if opt.Label != models.ReactionLabels[i] {
				t.Errorf("Option %d: expected %q, got %q", i, models.ReactionLabels[i], opt.Label)
			}
		}
	})
}

func TestCreatePollValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	earlier := past.Add(-time.Hour)

	cases := []struct {
		name string
		req  models.CreatePollRequest
	}{
		{"empty prompt", models.CreatePollRequest{Kind: models.KindBinary}},
		{"unknown kind", models.CreatePollRequest{Prompt: "p", Kind: "ranked"}},
		{"binary with three options", models.CreatePollRequest{Prompt: "p", Kind: models.KindBinary, Options: []string{"a", "b", "c"}}},
		{"choice with one option", models.CreatePollRequest{Prompt: "p", Kind: models.KindChoice, Options: []string{"only"}}},
		{"choice with seven options", models.CreatePollRequest{Prompt: "p", Kind: models.KindChoice, Options: []string{"a", "b", "c", "d", "e", "f", "g"}}},
		{"closes before opens", models.CreatePollRequest{Prompt: "p", Kind: models.KindBinary, OpensAt: &past, ClosesAt: &earlier}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreatePoll(ctx, tc.req); !errors.Is(err, models.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestCreatePollAnnouncesOnFeed(t *testing.T) {
	svc, bus := newService(t)

	sub, err := bus.Subscribe(broadcast.TopicFeed)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	pw, err := svc.CreatePoll(context.Background(), models.CreatePollRequest{Prompt: "Announce me", Kind: models.KindBinary})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	ev := receiveEvent(t, sub)
	if ev.Type != models.EventPollCreated {
		t.Errorf("Expected %s, got %s", models.EventPollCreated, ev.Type)
	}
	payload, ok := ev.Payload.(models.AnnouncementPayload)
	if !ok {
		t.Fatalf("Unexpected payload type %T", ev.Payload)
	}
	if payload.ID != pw.Poll.ID {
		t.Errorf("Expected announcement for poll %s, got %s", pw.Poll.ID, payload.ID)
	}
}

func TestCastVote(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Stay open later?", Kind: models.KindBinary})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	sub, _ := bus.Subscribe(broadcast.PollTopic(pw.Poll.ID))

	participant := testutil.NewTestParticipant(t)
	vote, err := svc.CastVote(ctx, CastVoteInput{
		PollID:        pw.Poll.ID,
		ParticipantID: participant,
		OptionID:      pw.Options[0].ID,
	})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if vote.OptionID != pw.Options[0].ID {
		t.Errorf("Expected vote for %s, got %s", pw.Options[0].ID, vote.OptionID)
	}

	ev := receiveEvent(t, sub)
	if ev.Type != models.EventVoteCast {
		t.Errorf("Expected %s event, got %s", models.EventVoteCast, ev.Type)
	}
	payload := ev.Payload.(models.VoteCastPayload)
	if payload.NewTotal != 1 {
		t.Errorf("Expected new total 1, got %d", payload.NewTotal)
	}

	// One vote per participant per poll.
	_, err = svc.CastVote(ctx, CastVoteInput{
		PollID:        pw.Poll.ID,
		ParticipantID: participant,
		OptionID:      pw.Options[1].ID,
	})
	if !errors.Is(err, models.ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}

	// A different participant is fine.
	if _, err := svc.CastVote(ctx, CastVoteInput{
		PollID:        pw.Poll.ID,
		ParticipantID: testutil.NewTestParticipant(t),
		OptionID:      pw.Options[1].ID,
	}); err != nil {
		t.Errorf("Second participant should be able to vote, got %v", err)
	}
}

func TestCastVoteLifecycleErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, CastVoteInput{PollID: "missing", ParticipantID: "p", OptionID: "o"})
	if !errors.Is(err, models.ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}

	opens := time.Now().Add(-2 * time.Hour)
	closes := time.Now().Add(-time.Hour)
	closed, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Prompt: "Too late", Kind: models.KindBinary, OpensAt: &opens, ClosesAt: &closes,
	})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	_, err = svc.CastVote(ctx, CastVoteInput{
		PollID: closed.Poll.ID, ParticipantID: "p", OptionID: closed.Options[0].ID,
	})
	if !errors.Is(err, models.ErrPollClosed) {
		t.Errorf("Expected ErrPollClosed, got %v", err)
	}

	open, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Open", Kind: models.KindBinary})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	_, err = svc.CastVote(ctx, CastVoteInput{
		PollID: open.Poll.ID, ParticipantID: "p", OptionID: "not-an-option",
	})
	if !errors.Is(err, models.ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption, got %v", err)
	}
}

func TestCastVoteRatingResolution(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Rate it", Kind: models.KindRating})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	rating := 8
	vote, err := svc.CastVote(ctx, CastVoteInput{
		PollID:        pw.Poll.ID,
		ParticipantID: testutil.NewTestParticipant(t),
		Rating:        &rating,
	})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	// The rating picks the option labeled "8".
	var want string
	for _, opt := range pw.Options {
		if opt.Label == "8" {
			want = opt.ID
		}
	}
	if vote.OptionID != want {
		t.Errorf("Expected rating 8 to resolve to option %s, got %s", want, vote.OptionID)
	}

	for _, bad := range []int{0, 11, -3} {
		r := bad
		_, err := svc.CastVote(ctx, CastVoteInput{
			PollID:        pw.Poll.ID,
			ParticipantID: testutil.NewTestParticipant(t),
			Rating:        &r,
		})
		if !errors.Is(err, models.ErrInvalidOption) {
			t.Errorf("Rating %d: expected ErrInvalidOption, got %v", bad, err)
		}
	}

	_, err = svc.CastVote(ctx, CastVoteInput{
		PollID:        pw.Poll.ID,
		ParticipantID: testutil.NewTestParticipant(t),
	})
	if !errors.Is(err, models.ErrInvalidOption) {
		t.Errorf("Missing rating: expected ErrInvalidOption, got %v", err)
	}
}

func TestUpdateAndRetractVote(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Stay open later?", Kind: models.KindBinary})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	participant := testutil.NewTestParticipant(t)

	// Updating before voting fails.
	_, err = svc.UpdateVote(ctx, CastVoteInput{
		PollID: pw.Poll.ID, ParticipantID: participant, OptionID: pw.Options[0].ID,
	})
	if !errors.Is(err, models.ErrVoteNotFound) {
		t.Errorf("Expected ErrVoteNotFound, got %v", err)
	}

	if _, err := svc.CastVote(ctx, CastVoteInput{
		PollID: pw.Poll.ID, ParticipantID: participant, OptionID: pw.Options[0].ID,
	}); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	updated, err := svc.UpdateVote(ctx, CastVoteInput{
		PollID: pw.Poll.ID, ParticipantID: participant, OptionID: pw.Options[1].ID,
	})
	if err != nil {
		t.Fatalf("UpdateVote failed: %v", err)
	}
	if updated.OptionID != pw.Options[1].ID {
		t.Errorf("Expected updated option %s, got %s", pw.Options[1].ID, updated.OptionID)
	}

	sub, _ := bus.Subscribe(broadcast.PollTopic(pw.Poll.ID))
	if err := svc.RetractVote(ctx, pw.Poll.ID, participant); err != nil {
		t.Fatalf("RetractVote failed: %v", err)
	}
	ev := receiveEvent(t, sub)
	if ev.Type != models.EventVoteRetracted {
		t.Errorf("Expected %s event, got %s", models.EventVoteRetracted, ev.Type)
	}
	if p := ev.Payload.(models.VoteRetractedPayload); p.NewTotal != 0 {
		t.Errorf("Expected new total 0, got %d", p.NewTotal)
	}

	if err := svc.RetractVote(ctx, pw.Poll.ID, participant); !errors.Is(err, models.ErrVoteNotFound) {
		t.Errorf("Expected ErrVoteNotFound for second retraction, got %v", err)
	}

	if _, err := svc.GetVote(ctx, pw.Poll.ID, participant); !errors.Is(err, models.ErrVoteNotFound) {
		t.Errorf("Expected ErrVoteNotFound after retraction, got %v", err)
	}
}

func TestUpdateVoteEventCarriesCurrentTotal(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Stay open later?", Kind: models.KindBinary})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	first := testutil.NewTestParticipant(t)
	if _, err := svc.CastVote(ctx, CastVoteInput{
		PollID: pw.Poll.ID, ParticipantID: first, OptionID: pw.Options[0].ID,
	}); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	// Two more casts after the first participant's, so a total captured
	// when their vote was created would be stale by now.
	for i := 0; i < 2; i++ {
		if _, err := svc.CastVote(ctx, CastVoteInput{
			PollID: pw.Poll.ID, ParticipantID: testutil.NewTestParticipant(t), OptionID: pw.Options[1].ID,
		}); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	}

	sub, err := bus.Subscribe(broadcast.PollTopic(pw.Poll.ID))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if _, err := svc.UpdateVote(ctx, CastVoteInput{
		PollID: pw.Poll.ID, ParticipantID: first, OptionID: pw.Options[1].ID,
	}); err != nil {
		t.Fatalf("UpdateVote failed: %v", err)
	}

	ev := receiveEvent(t, sub)
	if ev.Type != models.EventVoteUpdated {
		t.Fatalf("Expected %s event, got %s", models.EventVoteUpdated, ev.Type)
	}
	if p := ev.Payload.(models.VoteUpdatedPayload); p.Total != 3 {
		t.Errorf("Expected total 3 in payload, got %d", p.Total)
	}
}

func TestUpdatePollOptionSet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pw, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Prompt:  "Where should the new bike lane go?",
		Kind:    models.KindChoice,
		Options: []string{"Main St", "Oak Ave"},
	})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	poll, err := svc.UpdatePoll(ctx, pw.Poll.ID, models.UpdatePollRequest{
		Options: []string{"Main St", "Oak Ave", "River Rd"},
	}, false)
	if err != nil {
		t.Fatalf("UpdatePoll with options failed: %v", err)
	}
	if poll.ID != pw.Poll.ID {
		t.Errorf("Expected poll %s back, got %s", pw.Poll.ID, poll.ID)
	}

	got, err := svc.GetPoll(ctx, pw.Poll.ID)
	if err != nil {
		t.Fatalf("GetPoll failed: %v", err)
	}
	if len(got.Options) != 3 || got.Options[2].Label != "River Rd" {
		t.Errorf("Expected replaced 3-option set ending in River Rd, got %+v", got.Options)
	}

	// The replacement set obeys the same shape rules as creation.
	if _, err := svc.UpdatePoll(ctx, pw.Poll.ID, models.UpdatePollRequest{
		Options: []string{"only one"},
	}, false); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for single option, got %v", err)
	}

	rating, err := svc.CreatePoll(ctx, models.CreatePollRequest{Prompt: "Rate the proposal", Kind: models.KindRating})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if _, err := svc.UpdatePoll(ctx, rating.Poll.ID, models.UpdatePollRequest{
		Options: []string{"great", "awful"},
	}, false); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for rating poll, got %v", err)
	}

	if _, err := svc.UpdatePoll(ctx, "missing", models.UpdatePollRequest{
		Options: []string{"a", "b"},
	}, false); !errors.Is(err, models.ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}
}

func TestCreatePetitionValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	valid := models.CreatePetitionRequest{
		Title:           "Fix the crossing",
		Scope:           models.ScopeLocal,
		TargetAuthority: "City Council",
		SignatureGoal:   100,
	}

	cases := []struct {
		name   string
		mutate func(r *models.CreatePetitionRequest)
	}{
		{"empty title", func(r *models.CreatePetitionRequest) { r.Title = "" }},
		{"unknown scope", func(r *models.CreatePetitionRequest) { r.Scope = "galactic" }},
		{"zero goal", func(r *models.CreatePetitionRequest) { r.SignatureGoal = 0 }},
		{"milestone above goal", func(r *models.CreatePetitionRequest) {
			r.Milestones = []models.Milestone{{Threshold: 500, Label: "Too high"}}
		}},
		{"zero milestone", func(r *models.CreatePetitionRequest) {
			r.Milestones = []models.Milestone{{Threshold: 0, Label: "Zero"}}
		}},
		{"duplicate milestone", func(r *models.CreatePetitionRequest) {
			r.Milestones = []models.Milestone{{Threshold: 50}, {Threshold: 50}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			if _, err := svc.CreatePetition(ctx, req); !errors.Is(err, models.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}

	detail, err := svc.CreatePetition(ctx, valid)
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}
	if detail.Petition.Status != models.PetitionActive {
		t.Errorf("Expected new petition to be active, got %s", detail.Petition.Status)
	}
	if len(detail.Timeline) != 1 || detail.Timeline[0].Event != "Petition Created" {
		t.Errorf("Expected opening timeline entry, got %+v", detail.Timeline)
	}
}

func TestSignPetitionMilestones(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
		Title:         "Fix the crossing",
		Scope:         models.ScopeLocal,
		SignatureGoal: 5,
		Milestones:    []models.Milestone{{Threshold: 2, Label: "First two"}},
	})
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}
	petitionID := detail.Petition.ID
	sub, _ := bus.Subscribe(broadcast.PetitionTopic(petitionID))

	// First signature: no milestone.
	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Fatalf("SignPetition failed: %v", err)
	}
	ev := receiveEvent(t, sub)
	first := ev.Payload.(models.SignatureAddedPayload)
	if first.NewCount != 1 || first.MilestoneCrossed != nil || first.GoalReached {
		t.Errorf("Unexpected first-signature payload: %+v", first)
	}

	// Second signature crosses the milestone.
	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Fatalf("SignPetition failed: %v", err)
	}
	ev = receiveEvent(t, sub)
	second := ev.Payload.(models.SignatureAddedPayload)
	if second.MilestoneCrossed == nil || second.MilestoneCrossed.Threshold != 2 {
		t.Errorf("Expected milestone 2 crossed, got %+v", second)
	}

	after, _ := svc.GetPetition(ctx, petitionID)
	var found bool
	for _, entry := range after.Timeline {
		if entry.Event == "Milestone Reached" && entry.Detail == "First two" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a Milestone Reached timeline entry, got %+v", after.Timeline)
	}
}

func TestSignPetitionGoalReached(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
		Title:         "Small goal",
		Scope:         models.ScopeLocal,
		SignatureGoal: 2,
	})
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}
	petitionID := detail.Petition.ID

	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Fatalf("SignPetition failed: %v", err)
	}

	sub, _ := bus.Subscribe(broadcast.PetitionTopic(petitionID))
	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Fatalf("SignPetition failed: %v", err)
	}

	added := receiveEvent(t, sub)
	if p := added.Payload.(models.SignatureAddedPayload); !p.GoalReached {
		t.Errorf("Expected goal_reached on the crossing signature, got %+v", p)
	}
	goal := receiveEvent(t, sub)
	if goal.Type != models.EventGoalReached {
		t.Errorf("Expected %s event, got %s", models.EventGoalReached, goal.Type)
	}

	// Reaching the goal is informational; status does not change and
	// further signatures are still accepted.
	after, _ := svc.GetPetition(ctx, petitionID)
	if after.Petition.Status != models.PetitionActive {
		t.Errorf("Expected petition to stay active, got %s", after.Petition.Status)
	}
	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Errorf("Signatures past the goal should be accepted, got %v", err)
	}
}

func TestSignPetitionErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SignPetition(ctx, SignPetitionInput{PetitionID: "missing", ParticipantID: "p"})
	if !errors.Is(err, models.ErrPetitionNotFound) {
		t.Errorf("Expected ErrPetitionNotFound, got %v", err)
	}

	detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
		Title: "Fix it", Scope: models.ScopeLocal, SignatureGoal: 100,
	})
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}
	petitionID := detail.Petition.ID

	participant := testutil.NewTestParticipant(t)
	if _, err := svc.SignPetition(ctx, SignPetitionInput{PetitionID: petitionID, ParticipantID: participant}); err != nil {
		t.Fatalf("SignPetition failed: %v", err)
	}
	_, err = svc.SignPetition(ctx, SignPetitionInput{PetitionID: petitionID, ParticipantID: participant})
	if !errors.Is(err, models.ErrAlreadySigned) {
		t.Errorf("Expected ErrAlreadySigned, got %v", err)
	}

	if _, err := svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionSubmitted, ""); err != nil {
		t.Fatalf("UpdatePetitionStatus failed: %v", err)
	}
	_, err = svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	})
	if !errors.Is(err, models.ErrPetitionNotActive) {
		t.Errorf("Expected ErrPetitionNotActive, got %v", err)
	}
}

func TestPetitionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.PetitionActive, models.PetitionSubmitted, true},
		{models.PetitionActive, models.PetitionRejected, true},
		{models.PetitionActive, models.PetitionResolved, false},
		{models.PetitionSubmitted, models.PetitionResolved, true},
		{models.PetitionSubmitted, models.PetitionRejected, true},
		{models.PetitionResolved, models.PetitionSubmitted, false},
		{models.PetitionResolved, models.PetitionRejected, false},
		{models.PetitionRejected, models.PetitionSubmitted, false},
		{models.PetitionRejected, models.PetitionResolved, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			svc, _ := newService(t)
			ctx := context.Background()

			detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
				Title: "Transitions", Scope: models.ScopeLocal, SignatureGoal: 10,
			})
			if err != nil {
				t.Fatalf("CreatePetition failed: %v", err)
			}
			petitionID := detail.Petition.ID

			// Walk the petition to the starting status.
			switch tc.from {
			case models.PetitionSubmitted:
				_, err = svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionSubmitted, "")
			case models.PetitionResolved:
				if _, err = svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionSubmitted, ""); err == nil {
					_, err = svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionResolved, "")
				}
			case models.PetitionRejected:
				_, err = svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionRejected, "")
			}
			if err != nil {
				t.Fatalf("Failed to reach starting status %s: %v", tc.from, err)
			}

			after, err := svc.UpdatePetitionStatus(ctx, petitionID, tc.to, "note")
			if tc.allowed {
				if err != nil {
					t.Fatalf("Expected %s -> %s to succeed, got %v", tc.from, tc.to, err)
				}
				if after.Petition.Status != tc.to {
					t.Errorf("Expected status %s, got %s", tc.to, after.Petition.Status)
				}
			} else if !errors.Is(err, models.ErrInvalidTransition) {
				t.Errorf("Expected ErrInvalidTransition for %s -> %s, got %v", tc.from, tc.to, err)
			}
		})
	}
}

func TestUpdatePetitionStatusValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpdatePetitionStatus(ctx, "missing", models.PetitionSubmitted, "")
	if !errors.Is(err, models.ErrPetitionNotFound) {
		t.Errorf("Expected ErrPetitionNotFound, got %v", err)
	}

	detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
		Title: "Statuses", Scope: models.ScopeLocal, SignatureGoal: 10,
	})
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}

	_, err = svc.UpdatePetitionStatus(ctx, detail.Petition.ID, "active", "")
	if !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for status active, got %v", err)
	}
	_, err = svc.UpdatePetitionStatus(ctx, detail.Petition.ID, "archived", "")
	if !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for unknown status, got %v", err)
	}
}

func TestReopenPetition(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	detail, err := svc.CreatePetition(ctx, models.CreatePetitionRequest{
		Title: "Reopen me", Scope: models.ScopeLocal, SignatureGoal: 10,
	})
	if err != nil {
		t.Fatalf("CreatePetition failed: %v", err)
	}
	petitionID := detail.Petition.ID

	// Reopening an active petition is invalid.
	if _, err := svc.ReopenPetition(ctx, petitionID, ""); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.UpdatePetitionStatus(ctx, petitionID, models.PetitionRejected, ""); err != nil {
		t.Fatalf("UpdatePetitionStatus failed: %v", err)
	}

	after, err := svc.ReopenPetition(ctx, petitionID, "appeal accepted")
	if err != nil {
		t.Fatalf("ReopenPetition failed: %v", err)
	}
	if after.Petition.Status != models.PetitionActive {
		t.Errorf("Expected active after reopen, got %s", after.Petition.Status)
	}

	var found bool
	for _, entry := range after.Timeline {
		if entry.Event == "Petition Reopened" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a Petition Reopened timeline entry, got %+v", after.Timeline)
	}

	// Signatures flow again after reopening.
	if _, err := svc.SignPetition(ctx, SignPetitionInput{
		PetitionID: petitionID, ParticipantID: testutil.NewTestParticipant(t),
	}); err != nil {
		t.Errorf("Expected signing to work after reopen, got %v", err)
	}
}
