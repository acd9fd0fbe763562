// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session owns the voting-round phase state machine. All
// session mutations go through this service so phase invariants are
// enforced in one place.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/stats"
	"github.com/mrinaldi/quorum/store"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(st store.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Open moves CLOSED -> OPEN. Any other starting phase (TERMINATED, or
// already OPEN) is an illegal transition.
func (s *Service) Open(ctx context.Context) error {
	applied, err := s.store.CompareAndSetPhase(ctx, models.PhaseOpen, models.PhaseClosed)
	if err != nil {
		return err
	}
	if !applied {
		return models.ErrIllegalTransition
	}
	s.logger.Info("voting opened")
	return nil
}

// Close moves OPEN -> CLOSED and appends exactly one SessionReport
// capturing the tally at the instant of closing. The report write
// happens before the phase write; a crash in between is a detectable
// inconsistency, never a lost report for a closed round.
func (s *Service) Close(ctx context.Context) error {
	sess, err := s.store.GetSession(ctx)
	if err != nil {
		return err
	}
	if sess.Phase != models.PhaseOpen {
		return models.ErrIllegalTransition
	}

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return err
	}
	tally := stats.Tally(participants)

	report := models.SessionReport{
		ID:           uuid.NewString(),
		Topic:        sess.Topic,
		TotalPresent: tally.Total,
		Favor:        tally.Favor,
		Against:      tally.Against,
		Abstain:      tally.Abstain,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.AppendReport(ctx, report); err != nil {
		return err
	}

	applied, err := s.store.CompareAndSetPhase(ctx, models.PhaseClosed, models.PhaseOpen)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a race with another transition; the report above
		// belongs to whoever won.
		return models.ErrIllegalTransition
	}
	s.logger.Info("voting closed",
		"total", tally.Total,
		"favor", tally.Favor,
		"against", tally.Against,
		"abstain", tally.Abstain,
	)
	return nil
}

// Terminate ends the sitting permanently. Connected clients receive
// the phase change through the fan-out bridge and disconnect. Only
// Wipe leaves this state.
func (s *Service) Terminate(ctx context.Context) error {
	applied, err := s.store.CompareAndSetPhase(ctx, models.PhaseTerminated,
		models.PhaseOpen, models.PhaseClosed)
	if err != nil {
		return err
	}
	if !applied {
		return models.ErrIllegalTransition
	}
	s.logger.Info("session terminated")
	return nil
}

// SetTopic updates the deliberation topic; locked once TERMINATED.
func (s *Service) SetTopic(ctx context.Context, topic string) error {
	applied, err := s.store.SetTopic(ctx, topic)
	if err != nil {
		return err
	}
	if !applied {
		return models.ErrSessionLocked
	}
	return nil
}

// SetAccessCode updates the admission code; locked once TERMINATED.
func (s *Service) SetAccessCode(ctx context.Context, code string) error {
	applied, err := s.store.SetAccessCode(ctx, code)
	if err != nil {
		return err
	}
	if !applied {
		return models.ErrSessionLocked
	}
	return nil
}

// Wipe deletes all participants and reports and resets the session row
// to a fresh CLOSED state. Allowed from any phase; this is the only
// path out of TERMINATED.
func (s *Service) Wipe(ctx context.Context) error {
	if err := s.store.DeleteParticipants(ctx); err != nil {
		return err
	}
	if err := s.store.DeleteReports(ctx); err != nil {
		return err
	}
	if err := s.store.ResetSession(ctx, models.PhaseClosed, "", ""); err != nil {
		return err
	}
	s.logger.Info("session wiped")
	return nil
}
