// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/mrinaldi/quorum/models"
)

// Table identifies which entity a ChangeEvent refers to.
type Table string

const (
	TableSession      Table = "session"
	TableParticipants Table = "participants"
	TableReports      Table = "session_reports"
)

// Op is the kind of mutation a ChangeEvent describes. OpResync is a
// synthetic event emitted when a subscription (re)connects: consumers
// must re-fetch and treat the result as the latest persisted state.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpResync Op = "resync"
)

// ChangeEvent carries the new state of a changed row. Exactly one of
// the payload pointers is set for row events; all are nil for OpResync
// and for bulk deletes. Consumers treat every payload as a full-state
// replace for that entity, never as a diff.
type ChangeEvent struct {
	Table       Table                 `json:"table"`
	Op          Op                    `json:"op"`
	Session     *models.Session       `json:"session,omitempty"`
	Participant *models.Participant   `json:"participant,omitempty"`
	Report      *models.SessionReport `json:"report,omitempty"`
}

// Store is the contract with the external transactional data store.
//
// Every guarded mutation is expressed as a conditional update: the
// store applies it only if the precondition still holds and reports
// whether any row was affected. Callers never read-modify-write.
type Store interface {
	// GetSession returns the singleton session row.
	GetSession(ctx context.Context) (models.Session, error)

	// CompareAndSetPhase atomically moves the session phase to
	// to, provided the current phase is one of from. It returns
	// false (and no error) when the precondition fails.
	CompareAndSetPhase(ctx context.Context, to string, from ...string) (bool, error)

	// SetTopic updates the topic unless the session is TERMINATED.
	// Returns false when the phase precondition fails.
	SetTopic(ctx context.Context, topic string) (bool, error)

	// SetAccessCode updates the access code unless the session is
	// TERMINATED. Returns false when the phase precondition fails.
	SetAccessCode(ctx context.Context, code string) (bool, error)

	// ResetSession unconditionally rewrites the session row. Only
	// the wipe path uses this.
	ResetSession(ctx context.Context, phase, topic, code string) error

	// FindParticipant looks up a participant by name pair.
	FindParticipant(ctx context.Context, firstName, lastName string) (models.Participant, bool, error)

	// UpsertParticipant inserts a participant keyed on the name
	// pair. If the pair already exists the existing row is returned
	// unchanged, vote included.
	UpsertParticipant(ctx context.Context, firstName, lastName string) (models.Participant, error)

	// GetParticipant returns a participant by id, or
	// models.ErrNotFound.
	GetParticipant(ctx context.Context, id string) (models.Participant, error)

	// ListParticipants returns all participants of the current
	// epoch ordered by admission time.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// SetVote records a vote only where no vote is set yet
	// ("update vote where vote is null"). Returns false when the
	// participant had already voted; models.ErrNotFound when the
	// id does not exist.
	SetVote(ctx context.Context, id, choice string) (bool, error)

	// ClearVotes resets every participant's vote to absent.
	ClearVotes(ctx context.Context) error

	// DeleteParticipants removes all participant rows.
	DeleteParticipants(ctx context.Context) error

	// AppendReport appends one archival report record.
	AppendReport(ctx context.Context, report models.SessionReport) error

	// ListReports returns all reports ordered by creation time.
	ListReports(ctx context.Context) ([]models.SessionReport, error)

	// DeleteReports removes all report rows.
	DeleteReports(ctx context.Context) error

	// Subscribe returns a change stream that stays open until ctx
	// is cancelled. Delivery is at-least-once; updates to the same
	// row arrive in write order; the first event is an OpResync so
	// new consumers start from a full re-fetch.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)

	// Ping performs one bounded, low-cost read (liveness probe).
	Ping(ctx context.Context) error
}
