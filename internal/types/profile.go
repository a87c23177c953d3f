//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Education is a single education record from the profile store
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// Experience is a single work experience record from the profile store
type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Metrics is the last score record cached in the profile store.
// Either score may be absent.
type Metrics struct {
	ResumeScore    *int      `json:"resumeScore,omitempty"`
	InterviewScore *int      `json:"interviewScore,omitempty"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Profile is the aggregated snapshot of one user's data that the engine reads.
// Education, Experience, Resume and Metrics may be empty.
type Profile struct {
	UserID     uuid.UUID    `json:"userId,omitempty"`
	Skills     []Skill      `json:"skills"`
	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Resume     *Resume      `json:"resume,omitempty"`
	Metrics    *Metrics     `json:"metrics,omitempty"`
}
