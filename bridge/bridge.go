// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package bridge turns raw store change events into typed domain
// events on the bus. It is the only writer to the bus; consumer views
// (admin panel, voter page, live display) only subscribe.
package bridge

import (
	"context"
	"log/slog"

	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/stats"
	"github.com/mrinaldi/quorum/store"
)

// Domain event types published by the bridge. Data payloads are
// full-state replaces: models.SessionView, models.Participant,
// models.Tally, models.SessionReport, or nil for the cleared events.
const (
	EventSessionUpdated      event.EventType = "session.updated"
	EventSessionTerminated   event.EventType = "session.terminated"
	EventParticipantUpdated  event.EventType = "participant.updated"
	EventParticipantsCleared event.EventType = "participants.cleared"
	EventTallyUpdated        event.EventType = "tally.updated"
	EventReportAppended      event.EventType = "report.appended"
	EventReportsCleared      event.EventType = "reports.cleared"
)

type Bridge struct {
	store  store.Store
	bus    *event.Bus
	logger *slog.Logger
}

func New(st store.Store, bus *event.Bus, logger *slog.Logger) *Bridge {
	return &Bridge{store: st, bus: bus, logger: logger}
}

// Run consumes the store change stream until ctx is cancelled. Each
// change is re-emitted as one or more typed events; participant
// changes additionally recompute and publish the live tally so
// aggregate views never derive their own counts.
func (b *Bridge) Run(ctx context.Context) error {
	changes, err := b.store.Subscribe(ctx)
	if err != nil {
		return err
	}
	b.logger.Info("fan-out bridge running")
	for ev := range changes {
		b.handle(ctx, ev)
	}
	b.logger.Info("fan-out bridge stopped")
	return nil
}

func (b *Bridge) handle(ctx context.Context, ev store.ChangeEvent) {
	if ev.Op == store.OpResync {
		b.resync(ctx)
		return
	}

	switch ev.Table {
	case store.TableSession:
		if ev.Session == nil {
			return
		}
		b.publishSession(*ev.Session)

	case store.TableParticipants:
		switch ev.Op {
		case store.OpInsert, store.OpUpdate:
			if ev.Participant != nil {
				b.bus.Publish(event.New(EventParticipantUpdated, *ev.Participant))
			}
		case store.OpDelete:
			b.bus.Publish(event.New(EventParticipantsCleared, nil))
		}
		b.publishTally(ctx)

	case store.TableReports:
		switch ev.Op {
		case store.OpInsert:
			if ev.Report != nil {
				b.bus.Publish(event.New(EventReportAppended, *ev.Report))
			}
		case store.OpDelete:
			b.bus.Publish(event.New(EventReportsCleared, nil))
		}
	}
}

// resync re-fetches the authoritative state after (re)connection so
// every consumer catches up to the latest persisted state.
func (b *Bridge) resync(ctx context.Context) {
	sess, err := b.store.GetSession(ctx)
	if err != nil {
		b.logger.Error("resync: session fetch failed", "error", err)
		return
	}
	b.publishSession(sess)
	b.publishTally(ctx)
}

func (b *Bridge) publishSession(sess models.Session) {
	b.bus.Publish(event.New(EventSessionUpdated, models.SessionView{
		Phase: sess.Phase,
		Topic: sess.Topic,
	}))
	if sess.Phase == models.PhaseTerminated {
		// Disconnect signal for every connected participant view.
		b.bus.Publish(event.New(EventSessionTerminated, nil))
	}
}

func (b *Bridge) publishTally(ctx context.Context) {
	participants, err := b.store.ListParticipants(ctx)
	if err != nil {
		b.logger.Error("tally refresh failed", "error", err)
		return
	}
	b.bus.Publish(event.New(EventTallyUpdated, stats.Tally(participants)))
}
