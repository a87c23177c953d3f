// Package scoring computes the composite resume and interview readiness scores.
// Every function is total over its input and clamps results into [0, 100].
package scoring

import (
	"unicode/utf8"

	"github.com/jonathan/career-guide/internal/types"
)

// MaxScore is the upper bound of every composite score.
const MaxScore = 100

// Per-category caps for the structured resume score. They sum to MaxScore.
const (
	maxContactPoints       = 10
	maxSummaryPoints       = 5
	maxEducationPoints     = 15
	maxExperiencePoints    = 30
	maxSkillPoints         = 15
	maxCertificationPoints = 10
	maxProjectPoints       = 10
	maxLanguagePoints      = 5
)

const (
	contactFieldPoints     = 2
	summaryMinLength       = 50
	educationEntryPoints   = 5
	experienceBasePoints   = 3
	experienceDetailPoints = 2
	experienceDetailMin    = 3
	experienceTechPoints   = 1
	certificationPoints    = 5
	projectPoints          = 5
	languagePoints         = 2
)

// Fallback path constants, used when only record counts are known.
const (
	fallbackBase             = 50
	fallbackEducationPoints  = 5
	fallbackEducationCap     = 15
	fallbackExperiencePoints = 7
	fallbackExperienceCap    = 25
)

// ResumeBreakdown explains a structured resume score per category.
type ResumeBreakdown struct {
	Contact        int `json:"contact"`
	Summary        int `json:"summary"`
	Education      int `json:"education"`
	Experience     int `json:"experience"`
	Skills         int `json:"skills"`
	Certifications int `json:"certifications"`
	Projects       int `json:"projects"`
	Languages      int `json:"languages"`
	Total          int `json:"total"`
}

// ResumeScore scores a structured resume document for completeness and quality.
// A nil resume scores 0.
func ResumeScore(resume *types.Resume) ResumeBreakdown {
	var b ResumeBreakdown
	if resume == nil {
		return b
	}

	b.Contact = min(contactPoints(resume.ContactInfo), maxContactPoints)
	if utf8.RuneCountInString(resume.Summary) > summaryMinLength {
		b.Summary = maxSummaryPoints
	}
	b.Education = min(len(resume.Education)*educationEntryPoints, maxEducationPoints)
	b.Experience = min(experiencePoints(resume.Experience), maxExperiencePoints)
	b.Skills = min(len(resume.Skills), maxSkillPoints)
	b.Certifications = min(len(resume.Certifications)*certificationPoints, maxCertificationPoints)
	b.Projects = min(len(resume.Projects)*projectPoints, maxProjectPoints)
	b.Languages = min(len(resume.Languages)*languagePoints, maxLanguagePoints)

	b.Total = Clamp(b.Contact + b.Summary + b.Education + b.Experience +
		b.Skills + b.Certifications + b.Projects + b.Languages)
	return b
}

func contactPoints(c types.ContactInfo) int {
	points := 0
	for _, field := range []string{c.Name, c.Email, c.Phone, c.Location, c.LinkedIn} {
		if field != "" {
			points += contactFieldPoints
		}
	}
	return points
}

func experiencePoints(entries []types.Experience) int {
	points := 0
	for _, exp := range entries {
		points += experienceBasePoints
		if len(exp.Description) >= experienceDetailMin {
			points += experienceDetailPoints
		}
		if len(exp.Technologies) > 0 {
			points += experienceTechPoints
		}
	}
	return points
}

// FallbackResumeScore is the coarse score used when no structured resume is
// available and only education and experience counts are known.
func FallbackResumeScore(educationCount, experienceCount int) int {
	score := fallbackBase
	score += min(max(educationCount, 0)*fallbackEducationPoints, fallbackEducationCap)
	score += min(max(experienceCount, 0)*fallbackExperiencePoints, fallbackExperienceCap)
	return Clamp(score)
}

// Clamp bounds a score into [0, MaxScore].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
