// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bridge

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/memstore"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/testutil"
)

// newBridgeEnv starts a bridge over a fresh in-memory store. Callers
// must subscribe to the bus before mutating the store so no event is
// missed.
func newBridgeEnv(t *testing.T, phase, topic, code string) (*memstore.Store, *event.Bus) {
	t.Helper()

	st := testutil.SetupTestStore(t, phase, topic, code)
	bus := event.NewBus(prometheus.NewRegistry(), slog.Default())
	return st, bus
}

func startBridge(t *testing.T, st *memstore.Store, bus *event.Bus) {
	t.Helper()

	br := New(st, bus, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		br.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func recvEventOfType(t *testing.T, sub *event.Subscription, want event.EventType) event.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				t.Fatal("Subscription closed unexpectedly")
			}
			if evt.Type == want {
				return evt
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %s", want)
		}
	}
}

// TestStartupResyncPublishesSnapshot: connecting emits the latest
// persisted session state and tally so consumers catch up immediately.
func TestStartupResyncPublishesSnapshot(t *testing.T) {
	st, bus := newBridgeEnv(t, models.PhaseOpen, "School budget", "X1")
	sub := bus.Subscribe(EventSessionUpdated, EventTallyUpdated)
	defer bus.Unsubscribe(sub)

	startBridge(t, st, bus)

	evt := recvEventOfType(t, sub, EventSessionUpdated)
	view, ok := evt.Data.(models.SessionView)
	if !ok {
		t.Fatalf("Expected SessionView payload, got %T", evt.Data)
	}
	if view.Phase != models.PhaseOpen || view.Topic != "School budget" {
		t.Errorf("Unexpected session snapshot: %+v", view)
	}

	evt = recvEventOfType(t, sub, EventTallyUpdated)
	if tally, ok := evt.Data.(models.Tally); !ok || tally.Total != 0 {
		t.Errorf("Expected empty tally snapshot, got %+v", evt.Data)
	}
}

// TestParticipantChangeFansOut: a participant write re-emits the row
// as a full-state replace plus a recomputed tally.
func TestParticipantChangeFansOut(t *testing.T) {
	st, bus := newBridgeEnv(t, models.PhaseOpen, "topic", "X1")
	sub := bus.Subscribe(EventParticipantUpdated, EventTallyUpdated)
	defer bus.Unsubscribe(sub)

	startBridge(t, st, bus)
	recvEventOfType(t, sub, EventTallyUpdated) // startup snapshot

	ctx := context.Background()
	p, err := st.UpsertParticipant(ctx, "Ada", "Lovelace")
	if err != nil {
		t.Fatal(err)
	}

	evt := recvEventOfType(t, sub, EventParticipantUpdated)
	row, ok := evt.Data.(models.Participant)
	if !ok {
		t.Fatalf("Expected Participant payload, got %T", evt.Data)
	}
	if row.ID != p.ID || row.Vote != nil {
		t.Errorf("Unexpected participant payload: %+v", row)
	}

	evt = recvEventOfType(t, sub, EventTallyUpdated)
	if tally := evt.Data.(models.Tally); tally.Total != 1 || tally.Missing != 1 {
		t.Errorf("Expected tally total=1 missing=1, got %+v", tally)
	}

	// The vote write arrives after the insert, in write order.
	if _, err := st.SetVote(ctx, p.ID, models.VoteFavor); err != nil {
		t.Fatal(err)
	}

	evt = recvEventOfType(t, sub, EventParticipantUpdated)
	row = evt.Data.(models.Participant)
	if row.Vote == nil || *row.Vote != models.VoteFavor {
		t.Errorf("Expected vote in updated row, got %+v", row)
	}

	evt = recvEventOfType(t, sub, EventTallyUpdated)
	if tally := evt.Data.(models.Tally); tally.Favor != 1 || tally.Missing != 0 {
		t.Errorf("Expected tally favor=1 missing=0, got %+v", tally)
	}
}

// TestTerminateBroadcastsDisconnect: the phase change fans out as both
// a session update and an explicit termination signal.
func TestTerminateBroadcastsDisconnect(t *testing.T) {
	st, bus := newBridgeEnv(t, models.PhaseOpen, "topic", "X1")
	sub := bus.Subscribe(EventSessionUpdated, EventSessionTerminated)
	defer bus.Unsubscribe(sub)

	startBridge(t, st, bus)
	recvEventOfType(t, sub, EventSessionUpdated) // startup snapshot

	applied, err := st.CompareAndSetPhase(context.Background(), models.PhaseTerminated, models.PhaseOpen)
	if err != nil || !applied {
		t.Fatalf("Terminate CAS failed: applied=%v err=%v", applied, err)
	}

	// The phase change fans out as a session update followed by the
	// explicit disconnect signal.
	evt := recvEventOfType(t, sub, EventSessionUpdated)
	if view := evt.Data.(models.SessionView); view.Phase != models.PhaseTerminated {
		t.Errorf("Expected TERMINATED session view, got %+v", view)
	}
	recvEventOfType(t, sub, EventSessionTerminated)
}

func TestReportEventsFanOut(t *testing.T) {
	st, bus := newBridgeEnv(t, models.PhaseOpen, "topic", "X1")
	sub := bus.Subscribe(EventTallyUpdated, EventReportAppended, EventReportsCleared)
	defer bus.Unsubscribe(sub)

	startBridge(t, st, bus)
	recvEventOfType(t, sub, EventTallyUpdated) // startup snapshot

	ctx := context.Background()
	report := models.SessionReport{ID: "r1", Topic: "topic", TotalPresent: 3, Favor: 2, Against: 1, CreatedAt: time.Now()}
	if err := st.AppendReport(ctx, report); err != nil {
		t.Fatal(err)
	}

	evt := recvEventOfType(t, sub, EventReportAppended)
	got, ok := evt.Data.(models.SessionReport)
	if !ok {
		t.Fatalf("Expected SessionReport payload, got %T", evt.Data)
	}
	if got.ID != "r1" || got.Favor != 2 {
		t.Errorf("Unexpected report payload: %+v", got)
	}

	if err := st.DeleteReports(ctx); err != nil {
		t.Fatal(err)
	}
	recvEventOfType(t, sub, EventReportsCleared)
}

func TestParticipantsClearedFansOut(t *testing.T) {
	st, bus := newBridgeEnv(t, models.PhaseOpen, "topic", "X1")

	ctx := context.Background()
	if _, err := st.UpsertParticipant(ctx, "Ada", "Lovelace"); err != nil {
		t.Fatal(err)
	}

	sub := bus.Subscribe(EventParticipantsCleared, EventTallyUpdated)
	defer bus.Unsubscribe(sub)

	startBridge(t, st, bus)
	recvEventOfType(t, sub, EventTallyUpdated) // startup snapshot

	if err := st.DeleteParticipants(ctx); err != nil {
		t.Fatal(err)
	}

	recvEventOfType(t, sub, EventParticipantsCleared)
	evt := recvEventOfType(t, sub, EventTallyUpdated)
	if tally := evt.Data.(models.Tally); tally.Total != 0 {
		t.Errorf("Expected empty tally after clear, got %+v", tally)
	}
}
