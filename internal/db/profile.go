package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/types"
)

// -----------------------------------------------------------------------------
// Profile reads
// -----------------------------------------------------------------------------

// Skills returns the user's skills with their proficiency levels, oldest first
func (db *DB) Skills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.name, s.category, us.proficiency_level
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY us.created_at, s.name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	defer rows.Close()

	skills := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.Name, &s.Category, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// Education returns the user's education records, oldest first
func (db *DB) Education(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT institution, degree, field_of_study, start_date, end_date
		 FROM user_education
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get education: %w", err)
	}
	defer rows.Close()

	education := []types.Education{}
	for rows.Next() {
		var e types.Education
		var endDate *string
		if err := rows.Scan(&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		e.EndDate = derefString(endDate)
		education = append(education, e)
	}
	return education, rows.Err()
}

// Experience returns the user's work experience records, oldest first
func (db *DB) Experience(ctx context.Context, userID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT company, position, start_date, end_date, description, technologies
		 FROM user_experience
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	defer rows.Close()

	experience := []types.Experience{}
	for rows.Next() {
		var e types.Experience
		var endDate *string
		if err := rows.Scan(&e.Company, &e.Position, &e.StartDate, &endDate, &e.Description, &e.Technologies); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		e.EndDate = derefString(endDate)
		experience = append(experience, e)
	}
	return experience, rows.Err()
}

// LatestResume returns the most recently uploaded parsed resume, or nil if none
func (db *DB) LatestResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT parsed_data
		 FROM user_resumes
		 WHERE user_id = $1 AND parsed_data IS NOT NULL
		 ORDER BY uploaded_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	return profile.DecodeResume(raw)
}

// Metrics returns the stored score record, or nil if none
func (db *DB) Metrics(ctx context.Context, userID uuid.UUID) (*types.Metrics, error) {
	var resumeScore, interviewScore *int32
	var m types.Metrics
	err := db.pool.QueryRow(ctx,
		`SELECT resume_score, interview_score, last_updated
		 FROM user_metrics WHERE user_id = $1`,
		userID,
	).Scan(&resumeScore, &interviewScore, &m.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}

	m.ResumeScore = intPtr(resumeScore)
	m.InterviewScore = intPtr(interviewScore)
	return &m, nil
}
