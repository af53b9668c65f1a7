// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// TopicFeed is the global announcement topic for new polls and petitions.
const TopicFeed = "feed"

// ErrInvalidTopic is returned for topic names outside the
// poll:<id> / petition:<id> / feed namespace.
var ErrInvalidTopic = errors.New("invalid topic name")

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("broadcaster closed")

// Event is a change notification delivered to topic subscribers.
type Event struct {
	Type    string    `json:"type"`
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// PollTopic names the per-poll topic.
func PollTopic(pollID string) string {
	return "poll:" + pollID
}

// PetitionTopic names the per-petition topic.
func PetitionTopic(petitionID string) string {
	return "petition:" + petitionID
}

func validTopic(topic string) bool {
	if topic == TopicFeed {
		return true
	}
	if id, ok := strings.CutPrefix(topic, "poll:"); ok {
		return id != ""
	}
	if id, ok := strings.CutPrefix(topic, "petition:"); ok {
		return id != ""
	}
	return false
}

// Subscriber is a handle to one subscription. Events arrive on the
// channel returned by Events; when the subscriber's buffer is full the
// oldest pending event is dropped, never the publisher blocked. A
// subscriber that misses events reconciles with an on-demand read.
type Subscriber struct {
	topic string
	ch    chan Event
}

// Events is the receive side of the subscription. The channel is closed
// by Unsubscribe and by Close.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Topic returns the topic this subscriber is registered on.
func (s *Subscriber) Topic() string {
	return s.topic
}

// Broadcaster fans events out to topic subscribers. Purely in-process
// and ephemeral: no persistence, no replay. Safe for concurrent
// Subscribe/Unsubscribe/Publish.
type Broadcaster struct {
	mu     sync.RWMutex
	buffer int
	topics map[string]map[*Subscriber]struct{}
	closed bool
}

// New creates a broadcaster whose subscribers buffer up to buffer
// undelivered events each.
func New(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		buffer: buffer,
		topics: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber on topic. On a closed broadcaster
// it returns ErrClosed rather than a subscriber that can never receive.
func (b *Broadcaster) Subscribe(topic string) (*Subscriber, error) {
	if !validTopic(topic) {
		return nil, ErrInvalidTopic
	}

	sub := &Subscriber{topic: topic, ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub, nil
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[sub.topic]
	if !ok {
		return
	}
	if _, member := subs[sub]; !member {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
	// Publishers send under the read lock, so holding the write lock
	// here means no send can race this close.
	close(sub.ch)
}

// Publish delivers ev to every subscriber registered on topic at call
// time. Zero subscribers is a no-op; only a malformed topic is an error.
func (b *Broadcaster) Publish(topic string, ev Event) error {
	if !validTopic(topic) {
		return ErrInvalidTopic
	}
	ev.Topic = topic
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for sub := range b.topics[topic] {
		select {
		case sub.ch <- ev:
		default:
			// Full buffer: drop the oldest pending event to make room.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
	return nil
}

// Close shuts the broadcaster down, closing every subscriber channel.
// Subsequent publishes are silently dropped; subsequent subscribes fail
// with ErrClosed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.topics {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.topics, topic)
	}
}
