// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package guard implements the confirm-then-commit protocol for
destructive administrative actions (clear all votes, wipe, terminate).

State machine per action kind:

	IDLE ──invoke──▶ ARMED (deadline set, nothing executed)
	ARMED ──deadline passes──▶ IDLE
	ARMED ──invoke before deadline──▶ EXECUTED ──▶ IDLE
	ARMED ──abandon──▶ IDLE

The guard is independent of any rendering concern; HTTP handlers map
the armed result to a 202 response and the executed result to 200.
Expiry is evaluated lazily against an injectable clock, which keeps the
package free of timers and directly unit-testable.
*/
package guard
