// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types, request/response types, and
the domain error taxonomy shared by every other package.

# Domain Types

  - Session: singleton voting-round state (phase, topic, access code)
  - Participant: one admitted voter and their vote state
  - SessionReport: immutable per-close tally archive record
  - Tally: derived vote counts

# Phases

	CLOSED ──open()──▶ OPEN
	OPEN ──close()──▶ CLOSED (appends one SessionReport)
	OPEN|CLOSED ──terminate()──▶ TERMINATED
	any ──wipe()──▶ CLOSED (participants and reports deleted)

TERMINATED is absorbing: wipe() is the only way out.

# Errors

The five sentinel errors (ErrInvalidCode, ErrAlreadyVoted,
ErrSessionLocked, ErrIllegalTransition, ErrStoreUnavailable) are the
complete set of failures handlers translate into HTTP responses;
ErrNotFound covers lookups by id.
*/
package models
