// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/civicpulse/ledger/auth"
	"github.com/civicpulse/ledger/cliparse"
	"github.com/civicpulse/ledger/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// File-backed under t.TempDir so nothing leaks between tests, and a
// single connection so concurrent test writers serialize instead of
// fighting over the SQLite write lock.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger_test.db")
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3410,
		DatabaseURL:  "file:ledger_test.db",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		EventBuffer:  16,
	}
}

// CreateTestPoll creates a poll with the given option labels and returns
// its ID plus the option IDs in label order. The poll is open (active,
// opened an hour ago, closing in a day) unless open is false.
func CreateTestPoll(t *testing.T, conn *sql.DB, kind string, labels []string, open bool) (pollID string, optionIDs []string) {
	t.Helper()

	pollID = uuid.NewString()
	now := time.Now()
	opensAt := now.Add(-time.Hour)
	closesAt := now.Add(24 * time.Hour)
	if !open {
		closesAt = now.Add(-time.Minute)
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, prompt, kind, opens_at, closes_at, active, vote_count, created_at)
		VALUES ($1, 'Test poll', $2, $3, $4, $5, 0, $6)
	`, pollID, kind, opensAt, closesAt, true, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, label := range labels {
		optionID := uuid.NewString()
		_, err := conn.Exec(`
			INSERT INTO poll_option (id, poll_id, label, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, pollID, label, i+1)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// CastTestVote inserts a vote row directly and bumps the poll counter,
// bypassing the ledger service. Demographics may be nil.
func CastTestVote(t *testing.T, conn *sql.DB, pollID, participantID, optionID string, rating *int, region, ageBracket, gender *string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, poll_id, participant_id, option_id, rating, region, age_bracket, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, voteID, pollID, participantID, optionID, rating, region, ageBracket, gender, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	if _, err := conn.Exec(`UPDATE poll SET vote_count = vote_count + 1 WHERE id = $1`, pollID); err != nil {
		t.Fatalf("Failed to bump vote counter: %v", err)
	}

	return voteID
}

// CreateTestPetition creates a petition with milestones and returns its ID.
func CreateTestPetition(t *testing.T, conn *sql.DB, goal int, thresholds []int, status string) string {
	t.Helper()

	petitionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO petition (id, title, body, scope, target_authority, signature_count, signature_goal, status, urgent, created_at)
		VALUES ($1, 'Test petition', 'Body', 'local', 'City Council', 0, $2, $3, $4, $5)
	`, petitionID, goal, status, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test petition: %v", err)
	}

	for _, threshold := range thresholds {
		_, err := conn.Exec(`
			INSERT INTO petition_milestone (petition_id, threshold, label)
			VALUES ($1, $2, $3)
		`, petitionID, threshold, "Milestone")
		if err != nil {
			t.Fatalf("Failed to create test milestone: %v", err)
		}
	}

	return petitionID
}

// NewTestParticipant returns a fresh participant token.
func NewTestParticipant(t *testing.T) string {
	t.Helper()

	token, err := auth.GenerateParticipantToken()
	if err != nil {
		t.Fatalf("Failed to generate participant token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
