package store

// migrations are applied in order; schema_version records the last
// applied index + 1.
var migrations = []string{
	// 1: initial schema
	`CREATE TABLE activities (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('Maintenance', 'Feature', 'Update')),
		created_at TEXT NOT NULL,
		expires_at TEXT,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX idx_activities_created_at ON activities(created_at DESC);
	CREATE INDEX idx_activities_expires_at ON activities(expires_at);
	CREATE INDEX idx_activities_category ON activities(category);`,
}
