//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalyzeProfileRequest carries a caller-supplied profile snapshot.
// An empty skill list is accepted; it yields an insufficient-data result.
type AnalyzeProfileRequest struct {
	Skills     []SkillInput `json:"skills" validate:"dive"`
	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Resume     *Resume      `json:"resume,omitempty"`
}

// SkillInput is a skill as submitted by a client
type SkillInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category,omitempty" validate:"max=100"`
	Level    int    `json:"level" validate:"min=1,max=5"`
}

// StudyPlanRequest selects the role to build a plan for.
type StudyPlanRequest struct {
	JobTitle string `json:"jobTitle" validate:"required,max=200"`
}

// JobPreferenceRequest records the user's target role.
type JobPreferenceRequest struct {
	JobTitle string `json:"jobTitle" validate:"required,max=200"`
}

// AssistantRequest is a free-text question for the conversational assistant.
type AssistantRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

// Validate validates the AnalyzeProfileRequest using the validator.
func (r *AnalyzeProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the StudyPlanRequest using the validator.
func (r *StudyPlanRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the JobPreferenceRequest using the validator.
func (r *JobPreferenceRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AssistantRequest using the validator.
func (r *AssistantRequest) Validate() error {
	return validate.Struct(r)
}

// Profile converts the request into a snapshot for the engine.
func (r *AnalyzeProfileRequest) Profile() *Profile {
	skills := make([]Skill, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, Skill(s))
	}
	return &Profile{
		Skills:     skills,
		Education:  r.Education,
		Experience: r.Experience,
		Resume:     r.Resume,
	}
}
