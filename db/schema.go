// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables, the notification trigger, and the
// singleton session row. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Singleton session row (fixed id = 1)
CREATE TABLE IF NOT EXISTS session (
    id SMALLINT PRIMARY KEY CHECK (id = 1),
    phase TEXT NOT NULL DEFAULT 'CLOSED' CHECK (phase IN ('OPEN', 'CLOSED', 'TERMINATED')),
    topic TEXT NOT NULL DEFAULT '',
    access_code TEXT NOT NULL DEFAULT ''
);

INSERT INTO session (id) VALUES (1) ON CONFLICT (id) DO NOTHING;

-- Participants, keyed on the (first_name, last_name) pair
CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    vote TEXT CHECK (vote IN ('FAVOR', 'AGAINST', 'ABSTAIN')),
    admitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (first_name, last_name)
);

CREATE INDEX IF NOT EXISTS idx_participants_admitted_at ON participants(admitted_at);

-- Append-only archive of per-close tallies
CREATE TABLE IF NOT EXISTS session_reports (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    total_present INT NOT NULL,
    favor INT NOT NULL,
    against INT NOT NULL,
    abstain INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_session_reports_created_at ON session_reports(created_at);

-- Row change notification. Every mutation on the three tables emits a
-- JSON payload on the '` + notifyChannel + `' channel; pq.Listener on
-- the other side turns these into store.ChangeEvents.
CREATE OR REPLACE FUNCTION notify_row_change() RETURNS trigger AS $$
DECLARE
    rec RECORD;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec := OLD;
    ELSE
        rec := NEW;
    END IF;
    PERFORM pg_notify('` + notifyChannel + `', json_build_object(
        'table', TG_TABLE_NAME,
        'op', lower(TG_OP),
        'row', row_to_json(rec)
    )::text);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS session_notify ON session;
CREATE TRIGGER session_notify
    AFTER INSERT OR UPDATE OR DELETE ON session
    FOR EACH ROW EXECUTE FUNCTION notify_row_change();

DROP TRIGGER IF EXISTS participants_notify ON participants;
CREATE TRIGGER participants_notify
    AFTER INSERT OR UPDATE OR DELETE ON participants
    FOR EACH ROW EXECUTE FUNCTION notify_row_change();

DROP TRIGGER IF EXISTS session_reports_notify ON session_reports;
CREATE TRIGGER session_reports_notify
    AFTER INSERT OR UPDATE OR DELETE ON session_reports
    FOR EACH ROW EXECUTE FUNCTION notify_row_change();
`
