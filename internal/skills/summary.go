package skills

import (
	"sort"

	"github.com/jonathan/career-guide/internal/types"
)

// TopSkillCount is how many skills CareerAnalysis.TopSkills lists.
const TopSkillCount = 5

// LevelsByCategory returns the mean proficiency level per category.
func LevelsByCategory(userSkills []types.Skill) map[string]float64 {
	type acc struct {
		total int
		count int
	}
	sums := make(map[string]*acc)
	for _, s := range userSkills {
		a, ok := sums[s.Category]
		if !ok {
			a = &acc{}
			sums[s.Category] = a
		}
		a.total += s.Level
		a.count++
	}

	levels := make(map[string]float64, len(sums))
	for category, a := range sums {
		levels[category] = float64(a.total) / float64(a.count)
	}
	return levels
}

// TopSkills returns up to n skills with the highest levels. Skills with equal
// levels keep their input order.
func TopSkills(userSkills []types.Skill, n int) []types.TopSkill {
	sorted := make([]types.Skill, len(userSkills))
	copy(sorted, userSkills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Level > sorted[j].Level
	})

	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	top := make([]types.TopSkill, 0, len(sorted))
	for _, s := range sorted {
		top = append(top, types.TopSkill{Name: s.Name, Level: s.Level})
	}
	return top
}
