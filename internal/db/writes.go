package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/types"
)

// -----------------------------------------------------------------------------
// Writes
// -----------------------------------------------------------------------------

// SaveMetrics upserts the user's scores. Concurrent writes are last-write-wins.
func (db *DB) SaveMetrics(ctx context.Context, userID uuid.UUID, scores types.Scores) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_metrics (user_id, resume_score, interview_score, last_updated)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		     resume_score = EXCLUDED.resume_score,
		     interview_score = EXCLUDED.interview_score,
		     last_updated = NOW()`,
		userID, scores.ResumeScore, scores.InterviewReadiness,
	)
	if err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

// SaveStudyPlan upserts the plan for the user and the plan's job title
func (db *DB) SaveStudyPlan(ctx context.Context, userID uuid.UUID, plan *types.StudyPlan) error {
	jsonBytes, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal study plan: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_study_plans (user_id, job_title, plan_data, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, job_title) DO UPDATE SET plan_data = $3, created_at = NOW()`,
		userID, plan.JobTitle, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save study plan: %w", err)
	}
	return nil
}

// GetStudyPlan returns the stored plan for a job title, or nil if none
func (db *DB) GetStudyPlan(ctx context.Context, userID uuid.UUID, jobTitle string) (*types.StudyPlan, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT plan_data FROM user_study_plans WHERE user_id = $1 AND job_title = $2`,
		userID, jobTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to get study plan: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to scan study plan: %w", err)
	}

	var plan types.StudyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal study plan: %w", err)
	}
	return &plan, nil
}

// SaveJobPreference upserts the user's target job role
func (db *DB) SaveJobPreference(ctx context.Context, userID uuid.UUID, jobTitle string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, target_job_role, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET target_job_role = $2, updated_at = NOW()`,
		userID, jobTitle,
	)
	if err != nil {
		return fmt.Errorf("failed to save job preference: %w", err)
	}
	return nil
}

// JobPreference returns the user's target job role, or "" if none
func (db *DB) JobPreference(ctx context.Context, userID uuid.UUID) (string, error) {
	var title string
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(target_job_role), '') FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&title)
	if err != nil {
		return "", fmt.Errorf("failed to get job preference: %w", err)
	}
	return title, nil
}

// SaveChatExchange stores a question and the assistant's reply as two
// chat_history rows in one transaction.
func (db *DB) SaveChatExchange(ctx context.Context, userID uuid.UUID, message, response string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insert = `INSERT INTO chat_history (user_id, message, is_user, created_at) VALUES ($1, $2, $3, NOW())`
	if _, err := tx.Exec(ctx, insert, userID, message, true); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	if _, err := tx.Exec(ctx, insert, userID, response, false); err != nil {
		return fmt.Errorf("failed to save chat response: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chat exchange: %w", err)
	}
	return nil
}
