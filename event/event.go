// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subscriberQueueSize = 64

type EventType string

type SubscriberID int

type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

func New(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Subscription is one consumer's handle on the bus. Events arrive on C;
// the channel is closed by Unsubscribe.
type Subscription struct {
	id    SubscriberID
	types []EventType
	C     chan Event
}

// Bus is a typed publish/subscribe fan-out. Publishing never blocks:
// a subscriber whose queue is full misses the event (counted in the
// dropped metric) and is expected to recover via re-fetch.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[SubscriberID]*Subscription
	lastSubID   SubscriberID
	metrics     *busMetrics
	logger      *slog.Logger
}

func NewBus(promRegistry prometheus.Registerer, logger *slog.Logger) *Bus {
	b := &Bus{
		subscribers: make(map[EventType]map[SubscriberID]*Subscription),
		logger:      logger,
	}
	if promRegistry != nil {
		b.metrics = newBusMetrics(promRegistry)
	}
	return b
}

// Subscribe registers a consumer for the given event types. The
// returned subscription must be released with Unsubscribe when the
// consumer view is torn down, or its handler leaks across reconnects.
func (b *Bus) Subscribe(types ...EventType) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSubID++
	sub := &Subscription{
		id:    b.lastSubID,
		types: types,
		C:     make(chan Event, subscriberQueueSize),
	}
	for _, t := range types {
		if b.subscribers[t] == nil {
			b.subscribers[t] = make(map[SubscriberID]*Subscription)
		}
		b.subscribers[t][sub.id] = sub
	}
	return sub
}

// Unsubscribe removes the subscription from every type it was
// registered for and closes its channel. Safe to call once per
// subscription; deterministic so reconnecting consumers never end up
// with duplicate handlers.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	found := false
	for _, t := range sub.types {
		if subs, ok := b.subscribers[t]; ok {
			if _, ok := subs[sub.id]; ok {
				delete(subs, sub.id)
				found = true
			}
			if len(subs) == 0 {
				delete(b.subscribers, t)
			}
		}
	}
	if found {
		close(sub.C)
	}
}

// Publish delivers evt to every subscriber of its type.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.metrics != nil {
		b.metrics.published.WithLabelValues(string(evt.Type)).Inc()
	}
	for _, sub := range b.subscribers[evt.Type] {
		select {
		case sub.C <- evt:
			if b.metrics != nil {
				b.metrics.delivered.WithLabelValues(string(evt.Type)).Inc()
			}
		default:
			if b.metrics != nil {
				b.metrics.dropped.WithLabelValues(string(evt.Type)).Inc()
			}
			b.logger.Warn("dropping event for slow subscriber",
				"type", evt.Type,
				"subscriber", int(sub.id),
			)
		}
	}
}

// SubscriberCount returns the number of subscribers for an event type.
func (b *Bus) SubscriberCount(t EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[t])
}
