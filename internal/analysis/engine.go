// Package analysis runs the recommendation and scoring pipeline over profile
// snapshots and wires it to storage, caching and study plans.
package analysis

import (
	"github.com/jonathan/career-guide/internal/catalog"
	"github.com/jonathan/career-guide/internal/ranking"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/skills"
	"github.com/jonathan/career-guide/internal/types"
)

// Engine is the pure analysis pipeline. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	catalog catalog.Provider
}

// NewEngine creates an Engine over a catalog provider.
func NewEngine(provider catalog.Provider) *Engine {
	return &Engine{catalog: provider}
}

// Catalog returns the provider the engine reads from.
func (e *Engine) Catalog() catalog.Provider {
	return e.catalog
}

// Analyze produces the CareerAnalysis for a normalized profile snapshot.
// It returns nil when the profile has no skills. The result depends only on
// the snapshot and the catalog, so identical inputs marshal to identical JSON.
// Scores are always computed fresh; stored metrics are ignored.
func (e *Engine) Analyze(p *types.Profile) *types.CareerAnalysis {
	if p == nil || len(p.Skills) == 0 {
		return nil
	}

	gaps := skills.AnalyzeGaps(p.Skills, e.catalog.DemandSkills())
	jobs := ranking.MatchJobs(p.Skills, gaps, e.catalog.Roles(), e.catalog.CategoryFor)
	courses := ranking.MatchCourses(gaps, e.catalog.Courses())
	scores := scoring.Compute(p)

	return &types.CareerAnalysis{
		CurrentSkillLevel:     skills.LevelsByCategory(p.Skills),
		TopSkills:             skills.TopSkills(p.Skills, skills.TopSkillCount),
		SkillGaps:             gaps,
		JobRecommendations:    jobs,
		CourseRecommendations: courses,
		ResumeScore:           scores.ResumeScore,
		InterviewReadiness:    scores.InterviewReadiness,
	}
}
