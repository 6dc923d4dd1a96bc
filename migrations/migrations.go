package migrations

import "database/sql"

// AutoMigrateUsers creates the users table if it does not exist.
// AUTOINCREMENT keeps SQLite from ever reusing a deleted id.
func AutoMigrateUsers(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := db.Exec(query)
	return err
}
