package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/types"
)

// SaveMetrics upserts the user's scores. Concurrent writes are last-write-wins.
func (s *Store) SaveMetrics(ctx context.Context, userID uuid.UUID, scores types.Scores) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_metrics (user_id, resume_score, interview_score, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     resume_score = excluded.resume_score,
		     interview_score = excluded.interview_score,
		     last_updated = excluded.last_updated`,
		userID.String(), scores.ResumeScore, scores.InterviewReadiness, s.timestamp())
	if err != nil {
		return fmt.Errorf("sqlitestore: save metrics: %w", err)
	}
	return nil
}

// SaveStudyPlan upserts the plan for the user and the plan's job title.
func (s *Store) SaveStudyPlan(ctx context.Context, userID uuid.UUID, plan *types.StudyPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode study plan: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_study_plans (user_id, job_title, plan_data, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, job_title) DO UPDATE SET
		     plan_data = excluded.plan_data,
		     created_at = excluded.created_at`,
		userID.String(), plan.JobTitle, string(data), s.timestamp())
	if err != nil {
		return fmt.Errorf("sqlitestore: save study plan: %w", err)
	}
	return nil
}

// GetStudyPlan returns the stored plan for a job title, or nil if none.
func (s *Store) GetStudyPlan(ctx context.Context, userID uuid.UUID, jobTitle string) (*types.StudyPlan, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT plan_data FROM user_study_plans WHERE user_id = ? AND job_title = ?`,
		userID.String(), jobTitle).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: study plan: %w", err)
	}

	var plan types.StudyPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("sqlitestore: decode study plan: %w", err)
	}
	return &plan, nil
}

// SaveJobPreference upserts the user's target job role.
func (s *Store) SaveJobPreference(ctx context.Context, userID uuid.UUID, jobTitle string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, target_job_role, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     target_job_role = excluded.target_job_role,
		     updated_at = excluded.updated_at`,
		userID.String(), jobTitle, s.timestamp())
	if err != nil {
		return fmt.Errorf("sqlitestore: save job preference: %w", err)
	}
	return nil
}

// JobPreference returns the user's target job role, or "" if none.
func (s *Store) JobPreference(ctx context.Context, userID uuid.UUID) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx,
		`SELECT target_job_role FROM user_preferences WHERE user_id = ?`,
		userID.String()).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlitestore: job preference: %w", err)
	}
	return title, nil
}

// ImportProfile replaces the user's skills, education, experience and resume
// with the contents of p in a single transaction. Metrics are left untouched.
func (s *Store) ImportProfile(ctx context.Context, userID uuid.UUID, p *types.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := userID.String()
	for _, table := range []string{"user_skills", "user_education", "user_experience", "user_resumes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", id); err != nil {
			return fmt.Errorf("sqlitestore: clear %s: %w", table, err)
		}
	}

	for _, sk := range p.Skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_skills (user_id, name, category, proficiency_level) VALUES (?, ?, ?, ?)`,
			id, sk.Name, sk.Category, sk.Level); err != nil {
			return fmt.Errorf("sqlitestore: insert skill: %w", err)
		}
	}

	for _, e := range p.Education {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_education (user_id, institution, degree, field_of_study, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("sqlitestore: insert education: %w", err)
		}
	}

	for _, e := range p.Experience {
		description, err := encodeStrings(e.Description)
		if err != nil {
			return err
		}
		technologies, err := encodeStrings(e.Technologies)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_experience (user_id, company, position, start_date, end_date, description, technologies)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.Company, e.Position, e.StartDate, e.EndDate, description, technologies); err != nil {
			return fmt.Errorf("sqlitestore: insert experience: %w", err)
		}
	}

	if p.Resume != nil {
		data, err := json.Marshal(p.Resume)
		if err != nil {
			return fmt.Errorf("sqlitestore: encode resume: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_resumes (user_id, parsed_data, uploaded_at) VALUES (?, ?, ?)`,
			id, string(data), s.timestamp()); err != nil {
			return fmt.Errorf("sqlitestore: insert resume: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sqlitestore: encode list: %w", err)
	}
	return string(data), nil
}

// SaveChatExchange stores a question and the assistant's reply as two
// chat_history rows in one transaction.
func (s *Store) SaveChatExchange(ctx context.Context, userID uuid.UUID, message, response string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := s.timestamp()
	const insert = `INSERT INTO chat_history (user_id, message, is_user, created_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, userID.String(), message, 1, ts); err != nil {
		return fmt.Errorf("sqlitestore: save chat message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, userID.String(), response, 0, ts); err != nil {
		return fmt.Errorf("sqlitestore: save chat response: %w", err)
	}
	return tx.Commit()
}

// ChatHistory returns the user's stored messages in insertion order.
func (s *Store) ChatHistory(ctx context.Context, userID uuid.UUID) ([]assistant.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message, is_user, created_at FROM chat_history WHERE user_id = ? ORDER BY id`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []assistant.ChatMessage
	for rows.Next() {
		var (
			m      assistant.ChatMessage
			isUser int
			ts     string
		)
		if err := rows.Scan(&m.Message, &isUser, &ts); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan chat message: %w", err)
		}
		m.IsUser = isUser == 1
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.CreatedAt = t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
