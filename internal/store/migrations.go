package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Workouts (planned + actual, from the structured-training export)
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			workout_type TEXT,
			planned_tss REAL,
			actual_tss REAL,
			planned_if REAL,
			actual_if REAL,
			duration_planned_min REAL,
			duration_actual_min REAL,
			completed INTEGER NOT NULL DEFAULT 0,
			quality_score REAL,
			notes TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(date, title)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date)`,

		// Daily training load (the PMC series; latest row acts as the anchor)
		`CREATE TABLE IF NOT EXISTS training_load (
			date TEXT PRIMARY KEY,
			daily_tss REAL NOT NULL,
			ctl REAL NOT NULL,
			atl REAL NOT NULL,
			tsb REAL NOT NULL,
			computed_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// FTP test history (append-only)
		`CREATE TABLE IF NOT EXISTS ftp_history (
			id INTEGER PRIMARY KEY,
			test_date TEXT NOT NULL,
			ftp_watts REAL NOT NULL,
			protocol TEXT,
			confidence TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ftp_history_date ON ftp_history(test_date)`,

		// Sync State (key-value store for import tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
