//nolint:revive // types is a standard Go package name pattern
package types

// JobRole is one entry of the role catalog
type JobRole struct {
	Title          string   `json:"title"`
	RequiredSkills []string `json:"requiredSkills"`
	Description    string   `json:"description"`
	AverageSalary  string   `json:"averageSalary,omitempty"`
	GrowthOutlook  string   `json:"growthOutlook,omitempty"`
}

// JobRecommendation is a scored role with its per-role missing-skill breakdown.
// MatchScore is derived from RequiredSkills and the user's skill names only.
type JobRecommendation struct {
	Title          string     `json:"title"`
	MatchScore     int        `json:"matchScore"`
	RequiredSkills []string   `json:"requiredSkills"`
	MissingSkills  []SkillGap `json:"missingSkills"`
	AverageSalary  string     `json:"averageSalary,omitempty"`
	GrowthOutlook  string     `json:"growthOutlook,omitempty"`
	Description    string     `json:"description"`
}

// CourseRecommendation is an immutable course catalog entry
type CourseRecommendation struct {
	Title         string   `json:"title"`
	Provider      string   `json:"provider"`
	SkillsCovered []string `json:"skillsCovered"`
	Difficulty    string   `json:"difficulty"`
	Duration      string   `json:"duration"`
	URL           string   `json:"url,omitempty"`
}
