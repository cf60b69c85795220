package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Samples table - one normalized feature vector per row
		`CREATE TABLE IF NOT EXISTS samples (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			features TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('image', 'landmarks')),
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_samples_label ON samples(label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
