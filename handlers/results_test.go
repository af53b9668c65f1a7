// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/civicpulse/ledger/aggregate"
	"github.com/civicpulse/ledger/models"
	"github.com/civicpulse/ledger/testutil"
)

func TestGetTallyHandler(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewResultsHandler(aggregate.NewEngine(conn))

	pollID, optionIDs := testutil.CreateTestPoll(t, conn, models.KindBinary, []string{"Yes", "No"}, true)
	region := "north"
	testutil.CastTestVote(t, conn, pollID, testutil.NewTestParticipant(t), optionIDs[0], nil, &region, nil, nil)
	testutil.CastTestVote(t, conn, pollID, testutil.NewTestParticipant(t), optionIDs[1], nil, nil, nil, nil)

	w := httptest.NewRecorder()
	h.GetTally(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/tally", nil, nil), pollID))
	testutil.AssertStatus(t, w, 200)

	var tally models.TallyResult
	testutil.AssertJSON(t, w, &tally)
	if tally.Total != 2 {
		t.Errorf("Expected total 2, got %d", tally.Total)
	}

	// Query parameters narrow the population.
	w = httptest.NewRecorder()
	h.GetTally(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/tally?region=north", nil, nil), pollID))
	testutil.AssertStatus(t, w, 200)
	testutil.AssertJSON(t, w, &tally)
	if tally.Total != 1 {
		t.Errorf("Expected 1 vote after filtering, got %d", tally.Total)
	}
}

func TestGetBreakdownHandler(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewResultsHandler(aggregate.NewEngine(conn))

	pollID, optionIDs := testutil.CreateTestPoll(t, conn, models.KindBinary, []string{"Yes", "No"}, true)
	region := "north"
	testutil.CastTestVote(t, conn, pollID, testutil.NewTestParticipant(t), optionIDs[0], nil, &region, nil, nil)

	// Dimension is mandatory.
	w := httptest.NewRecorder()
	h.GetBreakdown(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/breakdown", nil, nil), pollID))
	testutil.AssertStatus(t, w, 400)

	w = httptest.NewRecorder()
	h.GetBreakdown(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/breakdown?dimension=region", nil, nil), pollID))
	testutil.AssertStatus(t, w, 200)

	var b models.Breakdown
	testutil.AssertJSON(t, w, &b)
	if b.Values["north"][optionIDs[0]] != 1 {
		t.Errorf("Expected the north vote in the breakdown, got %+v", b.Values)
	}

	// Unknown dimensions are rejected, not guessed at.
	w = httptest.NewRecorder()
	h.GetBreakdown(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/breakdown?dimension=shoe_size", nil, nil), pollID))
	testutil.AssertStatus(t, w, 400)
}

func TestGetSentimentHandler(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewResultsHandler(aggregate.NewEngine(conn))

	pollID, optionIDs := testutil.CreateTestPoll(t, conn, models.KindBinary, []string{"Yes", "No"}, true)
	testutil.CastTestVote(t, conn, pollID, testutil.NewTestParticipant(t), optionIDs[0], nil, nil, nil, nil)
	testutil.CastTestVote(t, conn, pollID, testutil.NewTestParticipant(t), optionIDs[0], nil, nil, nil, nil)

	w := httptest.NewRecorder()
	h.GetSentiment(w, withPathID(testutil.MakeRequest("GET", "/polls/"+pollID+"/sentiment", nil, nil), pollID))
	testutil.AssertStatus(t, w, 200)

	var s models.SentimentResult
	testutil.AssertJSON(t, w, &s)
	if s.Score != 100 || s.Positive != 2 {
		t.Errorf("Expected unanimous positive sentiment, got %+v", s)
	}
}
