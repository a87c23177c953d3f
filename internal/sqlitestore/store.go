// Package sqlitestore is a single-file profile store for local use, backed by
// the pure-Go SQLite driver. It serves the same interfaces as the PostgreSQL
// store.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/types"
)

var (
	_ profile.Store            = (*Store)(nil)
	_ analysis.MetricsWriter   = (*Store)(nil)
	_ analysis.StudyPlanStore  = (*Store)(nil)
	_ analysis.PreferenceStore = (*Store)(nil)
	_ assistant.History        = (*Store)(nil)
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS user_skills (
	user_id           TEXT NOT NULL,
	name              TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	proficiency_level INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS user_education (
	user_id        TEXT NOT NULL,
	institution    TEXT NOT NULL,
	degree         TEXT NOT NULL DEFAULT '',
	field_of_study TEXT NOT NULL DEFAULT '',
	start_date     TEXT NOT NULL DEFAULT '',
	end_date       TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS user_experience (
	user_id      TEXT NOT NULL,
	company      TEXT NOT NULL,
	position     TEXT NOT NULL DEFAULT '',
	start_date   TEXT NOT NULL DEFAULT '',
	end_date     TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '[]',
	technologies TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS user_resumes (
	user_id     TEXT NOT NULL,
	parsed_data TEXT,
	uploaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_metrics (
	user_id         TEXT PRIMARY KEY,
	resume_score    INTEGER,
	interview_score INTEGER,
	last_updated    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_preferences (
	user_id         TEXT PRIMARY KEY,
	target_job_role TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_study_plans (
	user_id    TEXT NOT NULL,
	job_title  TEXT NOT NULL,
	plan_data  TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, job_title)
);
CREATE TABLE IF NOT EXISTS chat_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	message    TEXT NOT NULL,
	is_user    INTEGER NOT NULL,
	created_at TEXT NOT NULL
);`

// Store is a SQLite-backed profile store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures its tables exist.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("sqlitestore: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer; also keeps :memory: on one connection

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// Skills returns the user's skills in insertion order.
func (s *Store) Skills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, proficiency_level FROM user_skills WHERE user_id = ? ORDER BY rowid`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: skills: %w", err)
	}
	defer rows.Close()

	out := []types.Skill{}
	for rows.Next() {
		var sk types.Skill
		if err := rows.Scan(&sk.Name, &sk.Category, &sk.Level); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan skill: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

// Education returns the user's education records in insertion order.
func (s *Store) Education(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT institution, degree, field_of_study, start_date, end_date
		 FROM user_education WHERE user_id = ? ORDER BY rowid`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: education: %w", err)
	}
	defer rows.Close()

	out := []types.Education{}
	for rows.Next() {
		var e types.Education
		if err := rows.Scan(&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan education: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Experience returns the user's experience records in insertion order.
func (s *Store) Experience(ctx context.Context, userID uuid.UUID) ([]types.Experience, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, position, start_date, end_date, description, technologies
		 FROM user_experience WHERE user_id = ? ORDER BY rowid`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: experience: %w", err)
	}
	defer rows.Close()

	out := []types.Experience{}
	for rows.Next() {
		var e types.Experience
		var description, technologies string
		if err := rows.Scan(&e.Company, &e.Position, &e.StartDate, &e.EndDate, &description, &technologies); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan experience: %w", err)
		}
		if err := json.Unmarshal([]byte(description), &e.Description); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode description: %w", err)
		}
		if err := json.Unmarshal([]byte(technologies), &e.Technologies); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode technologies: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestResume returns the most recent parsed resume, or nil if none.
func (s *Store) LatestResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT parsed_data FROM user_resumes
		 WHERE user_id = ? AND parsed_data IS NOT NULL
		 ORDER BY uploaded_at DESC, rowid DESC LIMIT 1`,
		userID.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: resume: %w", err)
	}
	return profile.DecodeResume([]byte(raw.String))
}

// Metrics returns the stored score record, or nil if none.
func (s *Store) Metrics(ctx context.Context, userID uuid.UUID) (*types.Metrics, error) {
	var resumeScore, interviewScore sql.NullInt64
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT resume_score, interview_score, last_updated FROM user_metrics WHERE user_id = ?`,
		userID.String()).Scan(&resumeScore, &interviewScore, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: metrics: %w", err)
	}

	m := &types.Metrics{
		ResumeScore:    nullIntPtr(resumeScore),
		InterviewScore: nullIntPtr(interviewScore),
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		m.LastUpdated = t
	}
	return m, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
