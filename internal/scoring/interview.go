package scoring

import (
	"github.com/jonathan/career-guide/internal/types"
)

const (
	interviewBase            = 40
	interviewEducationPoints = 5
	interviewExperiencePts   = 3
)

// TechnicalCategories are the skill categories that count toward interview readiness.
var TechnicalCategories = map[string]bool{
	"Programming Languages":  true,
	"Frameworks & Libraries": true,
	"Databases":              true,
	"Computer Science":       true,
}

// InterviewReadiness scores how prepared a user is for technical interviews.
//
// Every technical skill adds its level with no per-skill or aggregate cap
// before the final clamp, so profiles with many technical skills saturate at
// MaxScore.
func InterviewReadiness(userSkills []types.Skill, educationCount, experienceCount int) int {
	score := interviewBase
	for _, s := range userSkills {
		if TechnicalCategories[s.Category] {
			score += s.Level
		}
	}
	if educationCount > 0 {
		score += interviewEducationPoints
	}
	if experienceCount > 0 {
		score += experienceCount * interviewExperiencePts
	}
	return Clamp(score)
}
