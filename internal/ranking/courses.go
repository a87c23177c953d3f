package ranking

import (
	"github.com/jonathan/career-guide/internal/skills"
	"github.com/jonathan/career-guide/internal/types"
)

// MaxCourseRecommendations caps the course list.
const MaxCourseRecommendations = 5

// MatchCourses picks, for each gap in order, the first catalog course covering
// the gap's skill. Courses are deduplicated by title keeping the first
// occurrence and the result is truncated to MaxCourseRecommendations.
// First match wins by catalog order; courses are not scored against each other.
func MatchCourses(gaps []types.SkillGap, courses []types.CourseRecommendation) []types.CourseRecommendation {
	picked := make([]types.CourseRecommendation, 0, len(gaps))
	for _, gap := range gaps {
		if course, ok := firstCovering(courses, gap.SkillName); ok {
			picked = append(picked, course)
		}
	}

	seen := make(map[string]bool, len(picked))
	unique := make([]types.CourseRecommendation, 0, len(picked))
	for _, c := range picked {
		if seen[c.Title] {
			continue
		}
		seen[c.Title] = true
		unique = append(unique, c)
	}

	if len(unique) > MaxCourseRecommendations {
		unique = unique[:MaxCourseRecommendations]
	}
	return unique
}

func firstCovering(courses []types.CourseRecommendation, skillName string) (types.CourseRecommendation, bool) {
	key := skills.Key(skillName)
	for _, c := range courses {
		for _, covered := range c.SkillsCovered {
			if skills.Key(covered) == key {
				return c, true
			}
		}
	}
	return types.CourseRecommendation{}, false
}

// CoursesCovering filters courses to those covering any of the given skills.
// Matching is case-insensitive.
func CoursesCovering(courses []types.CourseRecommendation, gaps []types.SkillGap) []types.CourseRecommendation {
	wanted := make(map[string]bool, len(gaps))
	for _, g := range gaps {
		wanted[skills.Key(g.SkillName)] = true
	}

	out := make([]types.CourseRecommendation, 0)
	for _, c := range courses {
		for _, covered := range c.SkillsCovered {
			if wanted[skills.Key(covered)] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
