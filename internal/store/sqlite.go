package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kolapsis/crier/internal/activity"
)

// Timestamps are stored as UTC text with a fixed-width nanosecond
// fraction so string comparison in SQL matches time comparison at
// full resolution. RFC3339Nano would trim trailing zeros and break
// lexicographic ordering.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, zero CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
// The database file is created with 0600 permissions and its parent directory with 0700.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}

		// Pre-create the file with restrictive permissions if it doesn't exist
		if _, err := os.Stat(path); os.IsNotExist(err) {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
			if err != nil {
				return nil, fmt.Errorf("creating database file: %w", err)
			}
			_ = f.Close()
		}
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	// Ensure schema_version table exists
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		slog.Info("applying migration", "version", i+1)
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateActivity inserts a new activity, assigning its ID if unset.
func (s *SQLiteStore) CreateActivity(a *activity.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := s.db.Exec(`INSERT INTO activities (id, title, message, category, created_at, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Message, string(a.Category),
		formatTime(a.CreatedAt), formatTimePtr(a.ExpiresAt), boolToInt(a.Active))
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// GetActivity returns the activity with the given id, or ErrNotFound.
func (s *SQLiteStore) GetActivity(id string) (*activity.Activity, error) {
	row := s.db.QueryRow(`SELECT id, title, message, category, created_at, expires_at, is_active
		FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return a, nil
}

// ListActivities returns activities visible at f.Now, newest first.
// The visibility predicate is applied in SQL: no expiry, or expiry
// strictly after f.Now. ActiveOnly additionally requires the stored
// snapshot flag, matching a filtered listing consumer.
func (s *SQLiteStore) ListActivities(f Filter) ([]activity.Activity, error) {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := `SELECT id, title, message, category, created_at, expires_at, is_active
		FROM activities WHERE (expires_at IS NULL OR expires_at > ?)`
	args := []interface{}{formatTime(now)}

	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if f.ActiveOnly {
		query += " AND is_active = 1"
	}

	query += " ORDER BY created_at DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// CountActivities returns the total number of stored activities,
// visible or not. Not part of the Store interface; used by tests and
// maintenance tooling against the concrete store.
func (s *SQLiteStore) CountActivities() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return n, nil
}

// Cleanup deletes activities whose expiry passed before olderThan.
// Never-expiring activities are kept.
func (s *SQLiteStore) Cleanup(olderThan time.Time) error {
	_, err := s.db.Exec("DELETE FROM activities WHERE expires_at IS NOT NULL AND expires_at < ?",
		formatTime(olderThan))
	if err != nil {
		return fmt.Errorf("cleaning activities: %w", err)
	}
	return nil
}

// --- Helpers ---

func scanActivity(scan func(dest ...interface{}) error) (*activity.Activity, error) {
	var a activity.Activity
	var category, createdAt string
	var expiresAt sql.NullString
	var active int

	if err := scan(&a.ID, &a.Title, &a.Message, &category, &createdAt, &expiresAt, &active); err != nil {
		return nil, err
	}

	a.Category = activity.Category(category)
	a.CreatedAt = parseTime(createdAt)
	if expiresAt.Valid {
		t := parseTime(expiresAt.String)
		a.ExpiresAt = &t
	}
	a.Active = active != 0

	return &a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
