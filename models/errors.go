// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Domain error taxonomy. All of these are expected, recoverable
// conditions that must reach the initiating user with a specific
// message. ErrStoreUnavailable is the exception: it covers collaborator
// I/O failure and is surfaced as a generic try-again state.
var (
	ErrInvalidCode       = errors.New("access code does not match")
	ErrAlreadyVoted      = errors.New("vote already cast")
	ErrSessionLocked     = errors.New("session does not allow this operation in its current phase")
	ErrIllegalTransition = errors.New("illegal session phase transition")
	ErrNotFound          = errors.New("record not found")
	ErrStoreUnavailable  = errors.New("data store unavailable")
)
