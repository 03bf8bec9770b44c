package sqlite

const schema = `
-- Raw activity log: one row per (date, application, title) observation.
-- A date's rows are replaced wholesale on re-fetch; they are the complete
-- and exclusive source for re-aggregating that date.
CREATE TABLE IF NOT EXISTS activity_log (
    log_date TEXT NOT NULL,
    application TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    seconds INTEGER NOT NULL CHECK(seconds >= 0),
    category TEXT NOT NULL DEFAULT '',
    productivity INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_log_date ON activity_log(log_date);

-- Draft entries keyed by fingerprint: the reconciler's upsert target.
CREATE TABLE IF NOT EXISTS draft_entries (
    fingerprint TEXT PRIMARY KEY,
    entry_date TEXT NOT NULL,
    application TEXT NOT NULL,
    task_description TEXT NOT NULL,
    total_seconds INTEGER NOT NULL DEFAULT 0,
    time_units REAL NOT NULL DEFAULT 0,
    matter_code TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    notes TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_draft_entries_date ON draft_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_draft_entries_status ON draft_entries(status);
CREATE INDEX IF NOT EXISTS idx_draft_entries_matter ON draft_entries(matter_code);

-- Confirmed entries: immutable snapshots with a non-owning back-link to
-- the draft. One confirmed entry per fingerprint.
CREATE TABLE IF NOT EXISTS confirmed_entries (
    id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL UNIQUE,
    entry_date TEXT NOT NULL,
    application TEXT NOT NULL,
    task_description TEXT NOT NULL,
    time_units REAL NOT NULL,
    matter_code TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'submitted',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_confirmed_entries_date ON confirmed_entries(entry_date);

-- Singleton refresh-state record for the current-day fetch guard.
CREATE TABLE IF NOT EXISTS refresh_state (
    key TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
