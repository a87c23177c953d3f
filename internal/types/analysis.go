//nolint:revive // types is a standard Go package name pattern
package types

// CareerAnalysis is the aggregate output of one analysis run. It is always
// recomputed from a profile snapshot and never used as a source of truth.
type CareerAnalysis struct {
	CurrentSkillLevel     map[string]float64     `json:"currentSkillLevel"`
	TopSkills             []TopSkill             `json:"topSkills"`
	SkillGaps             []SkillGap             `json:"skillGaps"`
	JobRecommendations    []JobRecommendation    `json:"jobRecommendations"`
	CourseRecommendations []CourseRecommendation `json:"courseRecommendations"`
	ResumeScore           int                    `json:"resumeScore"`
	InterviewReadiness    int                    `json:"interviewReadiness"`
}

// FindJob returns the recommendation with the given title, or nil.
func (a *CareerAnalysis) FindJob(title string) *JobRecommendation {
	for i := range a.JobRecommendations {
		if a.JobRecommendations[i].Title == title {
			return &a.JobRecommendations[i]
		}
	}
	return nil
}

// Scores holds the two composite scores produced by the scorer
type Scores struct {
	ResumeScore        int `json:"resumeScore"`
	InterviewReadiness int `json:"interviewReadiness"`
}
