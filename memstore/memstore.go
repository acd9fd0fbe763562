// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package memstore is an in-memory store.Store with the same
// conditional-update and subscription semantics as the Postgres
// implementation. It backs the test suite and -store memory dev runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/store"
)

const subscriberBuffer = 256

type Store struct {
	mu           sync.Mutex
	session      models.Session
	participants map[string]models.Participant
	reports      []models.SessionReport
	subscribers  map[int]chan store.ChangeEvent
	nextSub      int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		session:      models.Session{Phase: models.PhaseClosed},
		participants: make(map[string]models.Participant),
		subscribers:  make(map[int]chan store.ChangeEvent),
	}
}

// emit delivers ev to all subscribers. Called with mu held, so events
// for the same row are observed in write order. Slow subscribers drop
// events rather than block a writer; the resync contract covers them.
func (s *Store) emit(ev store.ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Store) GetSession(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *Store) CompareAndSetPhase(ctx context.Context, to string, from ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := false
	for _, f := range from {
		if s.session.Phase == f {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	s.session.Phase = to
	sess := s.session
	s.emit(store.ChangeEvent{Table: store.TableSession, Op: store.OpUpdate, Session: &sess})
	return true, nil
}

func (s *Store) SetTopic(ctx context.Context, topic string) (bool, error) {
	return s.setSessionField(func(sess *models.Session) { sess.Topic = topic })
}

func (s *Store) SetAccessCode(ctx context.Context, code string) (bool, error) {
	return s.setSessionField(func(sess *models.Session) { sess.AccessCode = code })
}

func (s *Store) setSessionField(apply func(*models.Session)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Phase == models.PhaseTerminated {
		return false, nil
	}
	apply(&s.session)
	sess := s.session
	s.emit(store.ChangeEvent{Table: store.TableSession, Op: store.OpUpdate, Session: &sess})
	return true, nil
}

func (s *Store) ResetSession(ctx context.Context, phase, topic, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{Phase: phase, Topic: topic, AccessCode: code}
	sess := s.session
	s.emit(store.ChangeEvent{Table: store.TableSession, Op: store.OpUpdate, Session: &sess})
	return nil
}

func (s *Store) FindParticipant(ctx context.Context, firstName, lastName string) (models.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		if p.FirstName == firstName && p.LastName == lastName {
			return p, true, nil
		}
	}
	return models.Participant{}, false, nil
}

func (s *Store) UpsertParticipant(ctx context.Context, firstName, lastName string) (models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		if p.FirstName == firstName && p.LastName == lastName {
			return p, nil
		}
	}
	p := models.Participant{
		ID:         uuid.NewString(),
		FirstName:  firstName,
		LastName:   lastName,
		AdmittedAt: time.Now().UTC(),
	}
	s.participants[p.ID] = p
	row := p
	s.emit(store.ChangeEvent{Table: store.TableParticipants, Op: store.OpInsert, Participant: &row})
	return p, nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return models.Participant{}, models.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	participants := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].AdmittedAt.Equal(participants[j].AdmittedAt) {
			return participants[i].ID < participants[j].ID
		}
		return participants[i].AdmittedAt.Before(participants[j].AdmittedAt)
	})
	return participants, nil
}

func (s *Store) SetVote(ctx context.Context, id, choice string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if p.Vote != nil {
		return false, nil
	}
	v := choice
	p.Vote = &v
	s.participants[id] = p
	row := p
	s.emit(store.ChangeEvent{Table: store.TableParticipants, Op: store.OpUpdate, Participant: &row})
	return true, nil
}

func (s *Store) ClearVotes(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.participants {
		if p.Vote == nil {
			continue
		}
		p.Vote = nil
		s.participants[id] = p
		row := p
		s.emit(store.ChangeEvent{Table: store.TableParticipants, Op: store.OpUpdate, Participant: &row})
	}
	return nil
}

func (s *Store) DeleteParticipants(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.participants {
		row := p
		delete(s.participants, id)
		s.emit(store.ChangeEvent{Table: store.TableParticipants, Op: store.OpDelete, Participant: &row})
	}
	return nil
}

func (s *Store) AppendReport(ctx context.Context, report models.SessionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	row := report
	s.emit(store.ChangeEvent{Table: store.TableReports, Op: store.OpInsert, Report: &row})
	return nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.SessionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := make([]models.SessionReport, len(s.reports))
	copy(reports, s.reports)
	return reports, nil
}

func (s *Store) DeleteReports(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		row := r
		s.emit(store.ChangeEvent{Table: store.TableReports, Op: store.OpDelete, Report: &row})
	}
	s.reports = nil
	return nil
}

func (s *Store) Subscribe(ctx context.Context) (<-chan store.ChangeEvent, error) {
	s.mu.Lock()
	ch := make(chan store.ChangeEvent, subscriberBuffer)
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- store.ChangeEvent{Op: store.OpResync}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil
}
