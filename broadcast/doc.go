// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast provides in-process topic fan-out for change events.

# Topics

Three topic namespaces exist:

	poll:<id>      - per-poll vote events
	petition:<id>  - per-petition signature and status events
	feed           - global announcements for new polls and petitions

Anything else is ErrInvalidTopic.

# Usage

	bus := broadcast.New(16)
	sub, err := bus.Subscribe(broadcast.PollTopic(pollID))
	defer bus.Unsubscribe(sub)

	for ev := range sub.Events() {
		// handle ev
	}

Publishers never block:

	bus.Publish(topic, broadcast.Event{Type: ..., Payload: ...})

# Delivery Semantics

Delivery is best effort, at-most-once per subscriber, with no
persistence and no replay. Each subscriber has a bounded buffer; when
it fills, the oldest pending event is dropped to make room for the
newest. A subscriber that misses events reconciles by re-fetching the
tally or petition detail, which every payload carries enough state to
do.

All operations are safe for concurrent use. Close shuts every
subscriber channel; publishes after Close are silently dropped and
subscribes fail with ErrClosed.
*/
package broadcast
