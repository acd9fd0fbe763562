// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package event provides the typed in-process event bus the fan-out
bridge publishes to and every consumer view subscribes to.

# Usage

	bus := event.NewBus(prometheus.DefaultRegisterer, logger)

	sub := bus.Subscribe(bridge.EventTallyUpdated)
	defer bus.Unsubscribe(sub)

	for evt := range sub.C {
		// evt.Data is a full-state replace for the entity
	}

# Delivery Semantics

Publishing is non-blocking. Each subscriber has a bounded queue; when
it is full the event is dropped for that subscriber and counted in the
quorum_events_dropped_total metric. Consumers recover through the
resync/re-fetch contract, so a drop degrades freshness, never
correctness.

Unsubscribe is deterministic and idempotent: after it returns the
subscription channel is closed and no further events are delivered,
which keeps reconnecting views from accumulating duplicate handlers.
*/
package event
