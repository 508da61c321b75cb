// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One records table holds a JSON document per persisted key.
package storage

// initSchema creates or updates the database schema.
func (b *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := b.db.Exec(schema)
	return err
}
