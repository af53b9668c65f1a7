// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/civicpulse/ledger/broadcast"
	"github.com/civicpulse/ledger/middleware"
)

type EventsHandler struct {
	bus *broadcast.Broadcaster
}

func NewEventsHandler(bus *broadcast.Broadcaster) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /events?topic=poll:<id>
// Bridges the broadcaster to the client as Server-Sent Events. Delivery
// is best effort: a slow or disconnected client misses events and is
// expected to reconcile by re-fetching tallies.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "topic query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	sub, err := h.bus.Subscribe(topic)
	if err != nil {
		if errors.Is(err, broadcast.ErrInvalidTopic) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid topic name")
			return
		}
		if errors.Is(err, broadcast.ErrClosed) {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Server is shutting down")
			return
		}
		slog.Error("failed to subscribe", "topic", topic, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}
	defer h.bus.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	slog.Info("event stream opened", "topic", topic)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("event stream closed", "topic", topic)
			return
		case ev, open := <-sub.Events():
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode event", "topic", topic, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
