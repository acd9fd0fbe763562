// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/store"
)

// Store implements store.Store on PostgreSQL. Conditional updates use
// plain UPDATE ... WHERE preconditions and report RowsAffected; change
// notification rides on LISTEN/NOTIFY (see listener.go).
type Store struct {
	db     *sql.DB
	dsn    string // pq.Listener opens its own connection
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, dsn string, logger *slog.Logger) *Store {
	return &Store{db: db, dsn: dsn, logger: logger}
}

// wrap marks a low-level failure as ErrStoreUnavailable while keeping
// the driver error in the chain for logging.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(models.ErrStoreUnavailable, err))
}

func (s *Store) GetSession(ctx context.Context) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT phase, topic, access_code FROM session WHERE id = 1
	`).Scan(&sess.Phase, &sess.Topic, &sess.AccessCode)
	if err != nil {
		return models.Session{}, wrap("get session", err)
	}
	return sess, nil
}

func (s *Store) CompareAndSetPhase(ctx context.Context, to string, from ...string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET phase = $1 WHERE id = 1 AND phase = ANY($2)
	`, to, pq.Array(from))
	if err != nil {
		return false, wrap("compare-and-set phase", err)
	}
	return affected(res)
}

func (s *Store) SetTopic(ctx context.Context, topic string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET topic = $1 WHERE id = 1 AND phase <> $2
	`, topic, models.PhaseTerminated)
	if err != nil {
		return false, wrap("set topic", err)
	}
	return affected(res)
}

func (s *Store) SetAccessCode(ctx context.Context, code string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET access_code = $1 WHERE id = 1 AND phase <> $2
	`, code, models.PhaseTerminated)
	if err != nil {
		return false, wrap("set access code", err)
	}
	return affected(res)
}

func (s *Store) ResetSession(ctx context.Context, phase, topic, code string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE session SET phase = $1, topic = $2, access_code = $3 WHERE id = 1
	`, phase, topic, code)
	if err != nil {
		return wrap("reset session", err)
	}
	return nil
}

func (s *Store) FindParticipant(ctx context.Context, firstName, lastName string) (models.Participant, bool, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, vote, admitted_at
		FROM participants WHERE first_name = $1 AND last_name = $2
	`, firstName, lastName).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Vote, &p.AdmittedAt)
	if err == sql.ErrNoRows {
		return models.Participant{}, false, nil
	}
	if err != nil {
		return models.Participant{}, false, wrap("find participant", err)
	}
	return p, true, nil
}

func (s *Store) UpsertParticipant(ctx context.Context, firstName, lastName string) (models.Participant, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on
	// conflict, vote and admission time intact.
	var p models.Participant
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO participants (id, first_name, last_name, admitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (first_name, last_name)
		DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id, first_name, last_name, vote, admitted_at
	`, uuid.NewString(), firstName, lastName, time.Now().UTC()).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Vote, &p.AdmittedAt)
	if err != nil {
		return models.Participant{}, wrap("upsert participant", err)
	}
	return p, nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, vote, admitted_at
		FROM participants WHERE id = $1
	`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Vote, &p.AdmittedAt)
	if err == sql.ErrNoRows {
		return models.Participant{}, models.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, wrap("get participant", err)
	}
	return p, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, vote, admitted_at
		FROM participants ORDER BY admitted_at, id
	`)
	if err != nil {
		return nil, wrap("list participants", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Vote, &p.AdmittedAt); err != nil {
			return nil, wrap("scan participant", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list participants", err)
	}
	return participants, nil
}

func (s *Store) SetVote(ctx context.Context, id, choice string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE participants SET vote = $2 WHERE id = $1 AND vote IS NULL
	`, id, choice)
	if err != nil {
		return false, wrap("set vote", err)
	}
	applied, err := affected(res)
	if err != nil || applied {
		return applied, err
	}
	// Zero rows: distinguish "already voted" from "no such row".
	if _, err := s.GetParticipant(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Store) ClearVotes(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE participants SET vote = NULL WHERE vote IS NOT NULL
	`)
	if err != nil {
		return wrap("clear votes", err)
	}
	return nil
}

func (s *Store) DeleteParticipants(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM participants`)
	if err != nil {
		return wrap("delete participants", err)
	}
	return nil
}

func (s *Store) AppendReport(ctx context.Context, report models.SessionReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_reports (id, topic, total_present, favor, against, abstain, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, report.ID, report.Topic, report.TotalPresent, report.Favor, report.Against, report.Abstain, report.CreatedAt)
	if err != nil {
		return wrap("append report", err)
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.SessionReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, total_present, favor, against, abstain, created_at
		FROM session_reports ORDER BY created_at, id
	`)
	if err != nil {
		return nil, wrap("list reports", err)
	}
	defer rows.Close()

	var reports []models.SessionReport
	for rows.Next() {
		var r models.SessionReport
		if err := rows.Scan(&r.ID, &r.Topic, &r.TotalPresent, &r.Favor, &r.Against, &r.Abstain, &r.CreatedAt); err != nil {
			return nil, wrap("scan report", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reports", err)
	}
	return reports, nil
}

func (s *Store) DeleteReports(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_reports`)
	if err != nil {
		return wrap("delete reports", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	var id int
	err := s.db.QueryRowContext(ctx, `SELECT id FROM session LIMIT 1`).Scan(&id)
	if err != nil {
		return wrap("ping", err)
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("rows affected", err)
	}
	return n > 0, nil
}
