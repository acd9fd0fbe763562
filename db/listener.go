// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/store"
)

const notifyChannel = "quorum_changes"

const (
	listenerMinReconnect = time.Second
	listenerMaxReconnect = 30 * time.Second
)

// notifyPayload mirrors the JSON built by the notify_row_change trigger.
type notifyPayload struct {
	Table string          `json:"table"`
	Op    string          `json:"op"`
	Row   json.RawMessage `json:"row"`
}

type sessionRow struct {
	Phase      string `json:"phase"`
	Topic      string `json:"topic"`
	AccessCode string `json:"access_code"`
}

type participantRow struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Vote       *string   `json:"vote"`
	AdmittedAt time.Time `json:"admitted_at"`
}

type reportRow struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	TotalPresent int       `json:"total_present"`
	Favor        int       `json:"favor"`
	Against      int       `json:"against"`
	Abstain      int       `json:"abstain"`
	CreatedAt    time.Time `json:"created_at"`
}

// Subscribe opens a LISTEN connection and converts NOTIFY payloads to
// change events. A nil notification from pq (connection re-established
// after loss) and the initial connect both surface as OpResync, which
// tells consumers to re-fetch.
func (s *Store) Subscribe(ctx context.Context) (<-chan store.ChangeEvent, error) {
	listener := pq.NewListener(s.dsn, listenerMinReconnect, listenerMaxReconnect,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				s.logger.Warn("store listener event", "event", int(event), "error", err)
			}
		})
	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		return nil, wrap("listen", err)
	}

	events := make(chan store.ChangeEvent, 64)
	go func() {
		defer close(events)
		defer listener.Close()

		// Initial catch-up so late subscribers start from the
		// latest persisted state.
		s.deliver(ctx, events, store.ChangeEvent{Op: store.OpResync})

		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					// Reconnected; notifications may have been lost.
					s.deliver(ctx, events, store.ChangeEvent{Op: store.OpResync})
					continue
				}
				ev, ok := s.decode(n.Extra)
				if ok {
					s.deliver(ctx, events, ev)
				}
			}
		}
	}()
	return events, nil
}

func (s *Store) deliver(ctx context.Context, events chan<- store.ChangeEvent, ev store.ChangeEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func (s *Store) decode(payload string) (store.ChangeEvent, bool) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		s.logger.Error("undecodable change notification", "error", err)
		return store.ChangeEvent{}, false
	}

	ev := store.ChangeEvent{Table: store.Table(p.Table), Op: store.Op(p.Op)}
	switch ev.Table {
	case store.TableSession:
		var row sessionRow
		if err := json.Unmarshal(p.Row, &row); err != nil {
			s.logger.Error("undecodable session row", "error", err)
			return store.ChangeEvent{}, false
		}
		ev.Session = &models.Session{Phase: row.Phase, Topic: row.Topic, AccessCode: row.AccessCode}
	case store.TableParticipants:
		var row participantRow
		if err := json.Unmarshal(p.Row, &row); err != nil {
			s.logger.Error("undecodable participant row", "error", err)
			return store.ChangeEvent{}, false
		}
		ev.Participant = &models.Participant{
			ID:         row.ID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			Vote:       row.Vote,
			AdmittedAt: row.AdmittedAt,
		}
	case store.TableReports:
		var row reportRow
		if err := json.Unmarshal(p.Row, &row); err != nil {
			s.logger.Error("undecodable report row", "error", err)
			return store.ChangeEvent{}, false
		}
		ev.Report = &models.SessionReport{
			ID:           row.ID,
			Topic:        row.Topic,
			TotalPresent: row.TotalPresent,
			Favor:        row.Favor,
			Against:      row.Against,
			Abstain:      row.Abstain,
			CreatedAt:    row.CreatedAt,
		}
	default:
		s.logger.Debug("ignoring notification for unknown table", "table", p.Table)
		return store.ChangeEvent{}, false
	}
	return ev, true
}
