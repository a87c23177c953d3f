package analysis

import (
	"fmt"

	"github.com/jonathan/career-guide/internal/ranking"
	"github.com/jonathan/career-guide/internal/types"
)

// StudyPlanTimeframe is the overall duration every study plan targets.
const StudyPlanTimeframe = "3-6 months"

// foundationImportance is the minimum gap importance that earns a
// "Learn X basics" task in the first milestone.
const foundationImportance = 4

// BuildStudyPlan turns a job recommendation into a study plan. courses is the
// analysis' course list; only courses covering a missing skill are kept.
func BuildStudyPlan(job *types.JobRecommendation, courses []types.CourseRecommendation) *types.StudyPlan {
	focus := make([]types.FocusSkill, 0, len(job.MissingSkills))
	basics := make([]string, 0, len(job.MissingSkills))
	for _, gap := range job.MissingSkills {
		focus = append(focus, types.FocusSkill{
			Name:         gap.SkillName,
			Priority:     gap.Importance,
			CurrentLevel: gap.Level(),
			TargetLevel:  gap.RecommendedLevel,
		})
		if gap.Importance >= foundationImportance {
			basics = append(basics, fmt.Sprintf("Learn %s basics", gap.SkillName))
		}
	}

	return &types.StudyPlan{
		JobTitle:           job.Title,
		MatchScore:         job.MatchScore,
		Overview:           fmt.Sprintf("This study plan is designed to help you become a %s by focusing on the skills you need to develop.", job.Title),
		Timeframe:          StudyPlanTimeframe,
		SkillsToFocus:      focus,
		RecommendedCourses: ranking.CoursesCovering(courses, job.MissingSkills),
		Milestones: []types.Milestone{
			{
				Title:       "Foundation Building",
				Description: "Master the fundamental skills required for the role",
				Duration:    "4 weeks",
				Tasks:       basics,
			},
			{
				Title:       "Skill Development",
				Description: "Deepen your knowledge in key areas",
				Duration:    "8 weeks",
				Tasks: []string{
					"Complete recommended courses",
					"Build small projects to practice skills",
					"Participate in coding challenges",
				},
			},
			{
				Title:       "Project Building",
				Description: "Apply your skills to real-world projects",
				Duration:    "6 weeks",
				Tasks: []string{
					"Build a portfolio project showcasing your skills",
					"Contribute to open source projects",
					"Document your learning journey",
				},
			},
			{
				Title:       "Interview Preparation",
				Description: "Prepare for technical interviews",
				Duration:    "4 weeks",
				Tasks: []string{
					"Practice technical interview questions",
					"Prepare your resume and portfolio",
					"Research companies and roles",
				},
			},
		},
	}
}
