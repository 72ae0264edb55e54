package db

// SchemaVersion is the current database schema version
const SchemaVersion = 1

const schema = `
-- Week reports table
CREATE TABLE IF NOT EXISTS week_reports (
    id TEXT PRIMARY KEY,
    week_id TEXT NOT NULL UNIQUE,
    cycle_start TEXT NOT NULL,
    cycle_end TEXT NOT NULL,
    review_at TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    prev_week_report_id TEXT DEFAULT '',
    goals_week TEXT DEFAULT '[]',
    goals_month TEXT DEFAULT '[]',
    goals_long TEXT DEFAULT '[]',
    good_points TEXT DEFAULT '[]',
    issues TEXT DEFAULT '[]',
    last_week_tasks TEXT DEFAULT '[]',
    created_at TEXT DEFAULT '',
    updated_at TEXT DEFAULT ''
);

-- Days table
CREATE TABLE IF NOT EXISTS days (
    id TEXT PRIMARY KEY,
    week_report_id TEXT NOT NULL,
    date TEXT NOT NULL,
    available_minutes INTEGER,
    planned_minutes INTEGER NOT NULL DEFAULT 0,
    scheduled_minutes INTEGER NOT NULL DEFAULT 0,
    done_count INTEGER NOT NULL DEFAULT 0,
    total_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE (week_report_id, date),
    FOREIGN KEY (week_report_id) REFERENCES week_reports(id)
);

-- Tasks table
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    week_report_id TEXT NOT NULL,
    day_id TEXT NOT NULL,
    title TEXT NOT NULL,
    estimated_minutes INTEGER NOT NULL,
    priority INTEGER,
    status TEXT NOT NULL DEFAULT 'todo',
    reason_tags TEXT DEFAULT '[]',
    note TEXT DEFAULT '',
    created_at TEXT DEFAULT '',
    updated_at TEXT DEFAULT '',
    FOREIGN KEY (week_report_id) REFERENCES week_reports(id),
    FOREIGN KEY (day_id) REFERENCES days(id)
);

-- Task sessions table
CREATE TABLE IF NOT EXISTS task_sessions (
    id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    start_at TEXT NOT NULL,
    end_at TEXT NOT NULL,
    note TEXT DEFAULT '',
    is_completed INTEGER,
    FOREIGN KEY (task_id) REFERENCES tasks(id)
);

-- Snapshots table (immutable finalized copies, stored as documents)
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    week_report_id TEXT NOT NULL,
    schema_version TEXT NOT NULL,
    created_at TEXT NOT NULL,
    document TEXT NOT NULL,
    FOREIGN KEY (week_report_id) REFERENCES week_reports(id)
);

-- Schema info table
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_days_report ON days(week_report_id);
CREATE INDEX IF NOT EXISTS idx_tasks_report ON tasks(week_report_id);
CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day_id);
CREATE INDEX IF NOT EXISTS idx_sessions_task ON task_sessions(task_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_report ON snapshots(week_report_id);
CREATE INDEX IF NOT EXISTS idx_reports_status ON week_reports(status, cycle_start);
`

// ensureSchema creates all tables and records the schema version.
func (db *DB) ensureSchema() error {
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`,
		SchemaVersion)
	return err
}
