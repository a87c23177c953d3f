// Package ranking scores the role catalog against a user's skills and maps
// skill gaps to courses.
package ranking

import (
	"sort"

	"github.com/jonathan/career-guide/internal/catalog"
	"github.com/jonathan/career-guide/internal/skills"
	"github.com/jonathan/career-guide/internal/types"
)

// MinMatchScore is the floor a role's match score must exceed to be recommended.
const MinMatchScore = 40

// Defaults for a synthesized gap when a missing required skill is absent
// from the analyzed gaps.
const (
	defaultGapImportance       = 4
	defaultGapRecommendedLevel = 3
)

// MatchScore returns round(100 * matched / total) over the role's required
// skills, where a skill matches if the user holds it under the same name
// (case-insensitive) at any level. Rounding is half-up in integer arithmetic.
// A role with no required skills scores 0.
func MatchScore(requiredSkills []string, held map[string]types.Skill) int {
	total := len(requiredSkills)
	if total == 0 {
		return 0
	}

	matched := 0
	for _, req := range requiredSkills {
		if _, ok := held[skills.Key(req)]; ok {
			matched++
		}
	}

	return (200*matched + total) / (2 * total)
}

// MatchJobs scores every catalog role and returns those above MinMatchScore,
// best first. Ties keep catalog order.
func MatchJobs(userSkills []types.Skill, gaps []types.SkillGap, roles []types.JobRole, lookup skills.CategoryLookup) []types.JobRecommendation {
	held := skills.Index(userSkills)
	recommendations := make([]types.JobRecommendation, 0, len(roles))

	for _, role := range roles {
		score := MatchScore(role.RequiredSkills, held)
		if score <= MinMatchScore {
			continue
		}

		recommendations = append(recommendations, types.JobRecommendation{
			Title:          role.Title,
			MatchScore:     score,
			RequiredSkills: append([]string(nil), role.RequiredSkills...),
			MissingSkills:  missingSkills(role.RequiredSkills, held, gaps, lookup),
			AverageSalary:  role.AverageSalary,
			GrowthOutlook:  role.GrowthOutlook,
			Description:    role.Description,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})

	return recommendations
}

// missingSkills lists the role's required skills the user lacks, reusing the
// analyzed gap when one exists for the skill.
func missingSkills(required []string, held map[string]types.Skill, gaps []types.SkillGap, lookup skills.CategoryLookup) []types.SkillGap {
	missing := make([]types.SkillGap, 0)
	for _, req := range required {
		if _, ok := held[skills.Key(req)]; ok {
			continue
		}

		if gap, ok := skills.FindGap(gaps, req); ok {
			missing = append(missing, gap)
			continue
		}

		category := ""
		if lookup != nil {
			category = lookup(req)
		}
		if category == "" {
			category = catalog.DefaultCategory
		}
		missing = append(missing, types.SkillGap{
			SkillName:        req,
			Category:         category,
			Importance:       defaultGapImportance,
			RecommendedLevel: defaultGapRecommendedLevel,
		})
	}
	return missing
}
