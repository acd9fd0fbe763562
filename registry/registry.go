// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package registry manages participant admission and vote casting.
package registry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/store"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(st store.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Admit validates the access code and registers the participant. A
// returning (firstName, lastName) pair resumes its prior row - vote
// included - without a fresh code check; the name pair alone is the
// resume key. TERMINATED sessions admit nobody.
func (s *Service) Admit(ctx context.Context, firstName, lastName, accessCode string) (models.Participant, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	accessCode = strings.TrimSpace(accessCode)

	sess, err := s.store.GetSession(ctx)
	if err != nil {
		return models.Participant{}, err
	}
	if sess.Phase == models.PhaseTerminated {
		return models.Participant{}, models.ErrSessionLocked
	}

	if existing, ok, err := s.store.FindParticipant(ctx, firstName, lastName); err != nil {
		return models.Participant{}, err
	} else if ok {
		s.logger.Info("participant resumed", "participant_id", existing.ID)
		return existing, nil
	}

	if accessCode != sess.AccessCode {
		return models.Participant{}, models.ErrInvalidCode
	}

	// Two first admissions can race here; the store's upsert on the
	// name pair resolves both to the same row.
	p, err := s.store.UpsertParticipant(ctx, firstName, lastName)
	if err != nil {
		return models.Participant{}, err
	}
	s.logger.Info("participant admitted", "participant_id", p.ID)
	return p, nil
}

// CastVote records the participant's single vote for this round. The
// store applies it as "set vote where vote is null"; when two requests
// race, the second observes zero rows affected and fails AlreadyVoted.
func (s *Service) CastVote(ctx context.Context, participantID, choice string) (models.Participant, error) {
	sess, err := s.store.GetSession(ctx)
	if err != nil {
		return models.Participant{}, err
	}
	if sess.Phase != models.PhaseOpen {
		return models.Participant{}, models.ErrSessionLocked
	}

	applied, err := s.store.SetVote(ctx, participantID, choice)
	if err != nil {
		return models.Participant{}, err
	}
	if !applied {
		return models.Participant{}, models.ErrAlreadyVoted
	}
	s.logger.Info("vote cast", "participant_id", participantID)
	return s.store.GetParticipant(ctx, participantID)
}

// Get returns the participant's current state.
func (s *Service) Get(ctx context.Context, participantID string) (models.Participant, error) {
	return s.store.GetParticipant(ctx, participantID)
}

// ClearAllVotes resets every vote to absent so a new round can be held
// with the same attendees. Admission records are untouched.
func (s *Service) ClearAllVotes(ctx context.Context) error {
	if err := s.store.ClearVotes(ctx); err != nil {
		return err
	}
	s.logger.Info("all votes cleared")
	return nil
}

// ClearAll deletes every participant row. Used only by wipe.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.store.DeleteParticipants(ctx)
}
