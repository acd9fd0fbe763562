// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db implements store.Store on PostgreSQL.

# Schema

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS / OR REPLACE
throughout.

Tables:

  - session: singleton voting-round row (fixed id = 1), seeded on
    first run with phase CLOSED
  - participants: one row per admitted voter, unique on
    (first_name, last_name)
  - session_reports: append-only per-close tally archive

# Conditional Updates

Every guarded mutation is a single UPDATE with its precondition in the
WHERE clause; RowsAffected == 0 means the precondition failed. There is
no client-side read-modify-write, so concurrent writers cannot lose
updates:

	UPDATE participants SET vote = $2 WHERE id = $1 AND vote IS NULL

# Change Notification

A row-level trigger on all three tables calls pg_notify with a JSON
payload carrying the table name, operation, and new row state.
Subscribe consumes the channel through pq.Listener, which reconnects on
its own; both the initial connect and every reconnect emit a synthetic
resync event so consumers re-fetch anything they may have missed.
*/
package db
