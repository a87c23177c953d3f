// Package types provides type definitions for structured data used throughout the career-guide system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Proficiency bounds for Skill.Level. Levels are ordinal, not continuous.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
)

// Skill is a single normalized proficiency record held by a user
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"`
}

// TopSkill is the reduced view of a skill listed in CareerAnalysis.TopSkills
type TopSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// SkillGap describes a market-valued skill the user is missing or under target on.
// CurrentLevel is nil when the user has no record of the skill at all; a non-nil
// value below RecommendedLevel marks an improvement gap.
type SkillGap struct {
	SkillName        string `json:"skillName"`
	Category         string `json:"category"`
	Importance       int    `json:"importance"`
	CurrentLevel     *int   `json:"currentLevel,omitempty"`
	RecommendedLevel int    `json:"recommendedLevel"`
}

// IsMissing reports whether the user holds no record of the skill.
func (g SkillGap) IsMissing() bool {
	return g.CurrentLevel == nil
}

// Level returns the current level, treating a missing skill as 0.
func (g SkillGap) Level() int {
	if g.CurrentLevel == nil {
		return 0
	}
	return *g.CurrentLevel
}

// DemandSkill is one entry of the market-demand catalog
type DemandSkill struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	RecommendedLevel int    `json:"recommendedLevel"`
	Importance       int    `json:"importance"`
}
