//nolint:revive // types is a standard Go package name pattern
package types

// Resume is the structured document produced by the external resume parser
type Resume struct {
	ContactInfo    ContactInfo           `json:"contactInfo"`
	Summary        string                `json:"summary,omitempty"`
	Education      []ResumeEducation     `json:"education,omitempty"`
	Experience     []Experience          `json:"experience,omitempty"`
	Skills         []ResumeSkill         `json:"skills,omitempty"`
	Certifications []ResumeCertification `json:"certifications,omitempty"`
	Projects       []ResumeProject       `json:"projects,omitempty"`
	Languages      []ResumeLanguage      `json:"languages,omitempty"`
}

// ContactInfo holds the resume header fields
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ResumeEducation is an education entry as written on the resume
type ResumeEducation struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"fieldOfStudy,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// ResumeSkill is a skill listed on the resume. ProficiencyLevel is optional.
type ResumeSkill struct {
	Name             string `json:"name"`
	Category         string `json:"category,omitempty"`
	ProficiencyLevel int    `json:"proficiencyLevel,omitempty"`
}

// ResumeCertification is a certification listed on the resume
type ResumeCertification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	IssueDate    string `json:"issueDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

// ResumeProject is a project listed on the resume
type ResumeProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResumeLanguage is a spoken language listed on the resume
type ResumeLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}
