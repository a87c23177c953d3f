//nolint:revive // types is a standard Go package name pattern
package types

// StudyPlan is a structured plan toward one recommended role
type StudyPlan struct {
	JobTitle           string                 `json:"jobTitle"`
	MatchScore         int                    `json:"matchScore"`
	Overview           string                 `json:"overview"`
	Timeframe          string                 `json:"timeframe"`
	SkillsToFocus      []FocusSkill           `json:"skillsToFocus"`
	RecommendedCourses []CourseRecommendation `json:"recommendedCourses"`
	Milestones         []Milestone            `json:"milestones"`
}

// FocusSkill is a missing skill the plan targets
type FocusSkill struct {
	Name         string `json:"name"`
	Priority     int    `json:"priority"`
	CurrentLevel int    `json:"currentLevel"`
	TargetLevel  int    `json:"targetLevel"`
}

// Milestone is one phase of a study plan
type Milestone struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Tasks       []string `json:"tasks"`
}
