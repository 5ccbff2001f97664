// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines movements, workouts, user_progress, and earned_achievements tables.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS movements (
		name TEXT PRIMARY KEY COLLATE NOCASE,
		current_difficulty TEXT NOT NULL DEFAULT 'BEGINNER',
		progression_threshold INTEGER NOT NULL DEFAULT 3 CHECK (progression_threshold > 0)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		movement TEXT NOT NULL COLLATE NOCASE,
		date TEXT NOT NULL,
		weight REAL NOT NULL CHECK (weight >= 0),
		reps INTEGER NOT NULL CHECK (reps > 0),
		notes TEXT,
		difficulty_level TEXT NOT NULL,
		completed_successfully INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		FOREIGN KEY (movement) REFERENCES movements(name)
	);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id TEXT PRIMARY KEY,
		total_xp INTEGER NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS earned_achievements (
		id TEXT PRIMARY KEY,
		achievement_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		movement_name TEXT NOT NULL DEFAULT '',
		date_earned TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS ux_earned_achievement
		ON earned_achievements(achievement_id, user_id, movement_name);
	CREATE INDEX IF NOT EXISTS idx_earned_user ON earned_achievements(user_id, date_earned DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_movement_date ON workouts(movement, date DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
