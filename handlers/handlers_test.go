// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/cliparse"
	"github.com/civicpulse/ledger/ledger"
	"github.com/civicpulse/ledger/store"
	"github.com/civicpulse/ledger/testutil"
)

// setupHandlers builds the full service stack on a fresh database.
func setupHandlers(t *testing.T) (*ledger.Service, *store.Store, *broadcast.Broadcaster, cliparse.Config) {
	t.Helper()
	st := store.New(testutil.SetupTestDB(t))
	bus := broadcast.New(16)
	t.Cleanup(bus.Close)
	return ledger.New(st, bus), st, bus, testutil.GetTestConfig()
}

// withPathID stamps the {id} path value the mux would have extracted.
func withPathID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}

func participantHeaders(token string) map[string]string {
	return map[string]string{"X-Participant-Token": token}
}
