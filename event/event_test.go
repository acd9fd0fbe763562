// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const testType EventType = "test.event"

func newTestBus() *Bus {
	return NewBus(prometheus.NewRegistry(), slog.Default())
}

func recv(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.C:
		if !ok {
			t.Fatal("Subscription channel closed unexpectedly")
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := newTestBus()

	sub := bus.Subscribe(testType)
	defer bus.Unsubscribe(sub)

	bus.Publish(New(testType, "payload"))

	evt := recv(t, sub)
	if evt.Type != testType {
		t.Errorf("Expected type %s, got %s", testType, evt.Type)
	}
	if evt.Data != "payload" {
		t.Errorf("Expected payload, got %v", evt.Data)
	}
	if evt.Timestamp.IsZero() {
		t.Error("Event timestamp must be set")
	}
}

func TestSubscriberOnlyReceivesItsTypes(t *testing.T) {
	bus := newTestBus()

	sub := bus.Subscribe(testType)
	defer bus.Unsubscribe(sub)

	bus.Publish(New(EventType("other.event"), nil))
	bus.Publish(New(testType, 42))

	evt := recv(t, sub)
	if evt.Type != testType {
		t.Errorf("Received event of unsubscribed type: %s", evt.Type)
	}
	select {
	case extra := <-sub.C:
		t.Errorf("Unexpected extra event: %+v", extra)
	default:
	}
}

func TestMultipleSubscribersAllReceive(t *testing.T) {
	bus := newTestBus()

	a := bus.Subscribe(testType)
	b := bus.Subscribe(testType)
	defer bus.Unsubscribe(a)
	defer bus.Unsubscribe(b)

	bus.Publish(New(testType, nil))

	recv(t, a)
	recv(t, b)
}

func TestUnsubscribeStopsDeliveryAndClosesChannel(t *testing.T) {
	bus := newTestBus()

	sub := bus.Subscribe(testType)
	bus.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Error("Channel must be closed after Unsubscribe")
	}
	if n := bus.SubscriberCount(testType); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(New(testType, nil))

	// Double unsubscribe is a no-op.
	bus.Unsubscribe(sub)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := newTestBus()

	sub := bus.Subscribe(testType)
	defer bus.Unsubscribe(sub)

	// Overflow the queue; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberQueueSize*2; i++ {
			bus.Publish(New(testType, i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestSubscriptionSpansMultipleTypes(t *testing.T) {
	bus := newTestBus()

	other := EventType("other.event")
	sub := bus.Subscribe(testType, other)

	bus.Publish(New(testType, nil))
	bus.Publish(New(other, nil))

	if evt := recv(t, sub); evt.Type != testType {
		t.Errorf("Expected %s first, got %s", testType, evt.Type)
	}
	if evt := recv(t, sub); evt.Type != other {
		t.Errorf("Expected %s second, got %s", other, evt.Type)
	}

	bus.Unsubscribe(sub)
	if bus.SubscriberCount(testType) != 0 || bus.SubscriberCount(other) != 0 {
		t.Error("Unsubscribe must remove the subscription from every type")
	}
}
