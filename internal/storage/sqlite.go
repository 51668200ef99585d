// internal/storage/sqlite.go
package storage

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/models"
)

// SQLiteStorage owns the single process-wide database handle. The log tables
// are append-only: this layer exposes inserts and reads, nothing else.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS individuals (
        user_id TEXT PRIMARY KEY,
        first_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        dietary_preference TEXT NOT NULL DEFAULT '',
        medical_conditions TEXT NOT NULL DEFAULT '',
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS mood_logs (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        mood TEXT NOT NULL,
        recorded_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS glucose_readings (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        reading INTEGER NOT NULL,
        is_valid INTEGER NOT NULL,
        recorded_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS food_logs (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        description TEXT NOT NULL,
        calories INTEGER,
        recorded_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_mood_logs_user ON mood_logs(user_id, recorded_at);
    CREATE INDEX IF NOT EXISTS idx_glucose_user ON glucose_readings(user_id, recorded_at);
    CREATE INDEX IF NOT EXISTS idx_food_logs_user ON food_logs(user_id, recorded_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// newULID generates a time-ordered row ID.
func newULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}

// SaveIndividual registers or updates a user's identity and profile.
func (s *SQLiteStorage) SaveIndividual(identity *models.Identity, profile *models.Profile) error {
	query := `
        INSERT INTO individuals (user_id, first_name, last_name, dietary_preference, medical_conditions, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            dietary_preference = excluded.dietary_preference,
            medical_conditions = excluded.medical_conditions
    `
	_, err := s.db.Exec(query,
		identity.UserID, identity.FirstName, identity.LastName,
		profile.DietaryPreference, profile.MedicalConditions,
		formatTime(time.Now()))
	if err != nil {
		return faults.NewWrite("individuals", err)
	}
	return nil
}

// LookupIdentity resolves a user_id to at most one identity. A miss is a
// NOT_FOUND fault, which callers treat as a normal branch.
func (s *SQLiteStorage) LookupIdentity(userID string) (*models.Identity, error) {
	query := `SELECT user_id, first_name, last_name FROM individuals WHERE user_id = ?`

	identity := &models.Identity{}
	err := s.db.QueryRow(query, userID).Scan(&identity.UserID, &identity.FirstName, &identity.LastName)
	if err == sql.ErrNoRows {
		return nil, faults.NewNotFound(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query individuals: %w", err)
	}
	return identity, nil
}

// LookupProfile fetches dietary preference and medical conditions.
func (s *SQLiteStorage) LookupProfile(userID string) (*models.Profile, error) {
	query := `SELECT dietary_preference, medical_conditions FROM individuals WHERE user_id = ?`

	profile := &models.Profile{}
	err := s.db.QueryRow(query, userID).Scan(&profile.DietaryPreference, &profile.MedicalConditions)
	if err == sql.ErrNoRows {
		return nil, faults.NewNotFound(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query individuals: %w", err)
	}
	return profile, nil
}

// AppendMood inserts one mood observation. Append-only, no dedup: logging
// the same mood twice produces two rows.
func (s *SQLiteStorage) AppendMood(log *models.MoodLog) error {
	if log.ID == "" {
		log.ID = newULID()
	}
	query := `INSERT INTO mood_logs (id, user_id, mood, recorded_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, log.ID, log.UserID, log.Mood, formatTime(log.RecordedAt)); err != nil {
		return faults.NewWrite("mood_logs", err)
	}
	return nil
}

// AppendGlucose inserts one glucose observation, healthy-range flag included.
func (s *SQLiteStorage) AppendGlucose(reading *models.GlucoseReading) error {
	if reading.ID == "" {
		reading.ID = newULID()
	}
	query := `INSERT INTO glucose_readings (id, user_id, reading, is_valid, recorded_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.Exec(query, reading.ID, reading.UserID, reading.Reading, reading.IsValid, formatTime(reading.RecordedAt)); err != nil {
		return faults.NewWrite("glucose_readings", err)
	}
	return nil
}

// AppendFood inserts one food intake entry. Nil calories stores NULL.
func (s *SQLiteStorage) AppendFood(entry *models.FoodEntry) error {
	if entry.ID == "" {
		entry.ID = newULID()
	}
	var calories interface{}
	if entry.Calories != nil {
		calories = *entry.Calories
	}
	query := `INSERT INTO food_logs (id, user_id, description, calories, recorded_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.Exec(query, entry.ID, entry.UserID, entry.Description, calories, formatTime(entry.RecordedAt)); err != nil {
		return faults.NewWrite("food_logs", err)
	}
	return nil
}

// RecentReadings returns up to limit glucose values for a user, most recent
// first. No readings is an empty slice, not an error.
func (s *SQLiteStorage) RecentReadings(userID string, limit int) ([]int, error) {
	query := `
        SELECT reading FROM glucose_readings
        WHERE user_id = ?
        ORDER BY recorded_at DESC, id DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query glucose readings: %w", err)
	}
	defer rows.Close()

	readings := []int{}
	for rows.Next() {
		var reading int
		if err := rows.Scan(&reading); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

// GlucoseHistory returns full recent rows, most recent first. Used by the
// tool surface; the meal-plan path only needs the values from RecentReadings.
func (s *SQLiteStorage) GlucoseHistory(userID string, limit int) ([]*models.GlucoseReading, error) {
	query := `
        SELECT id, user_id, reading, is_valid, recorded_at FROM glucose_readings
        WHERE user_id = ?
        ORDER BY recorded_at DESC, id DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query glucose readings: %w", err)
	}
	defer rows.Close()

	var history []*models.GlucoseReading
	for rows.Next() {
		reading := &models.GlucoseReading{}
		var recordedAt string
		if err := rows.Scan(&reading.ID, &reading.UserID, &reading.Reading, &reading.IsValid, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		if reading.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		history = append(history, reading)
	}
	return history, rows.Err()
}
