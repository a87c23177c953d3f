package skills

import (
	"sort"

	"github.com/jonathan/career-guide/internal/types"
)

// AnalyzeGaps compares the user's skills against the demand catalog.
//
// A catalog skill the user lacks yields a gap with no current level; a skill
// held below its recommended level yields a gap carrying the user's level; a
// skill at or above target yields nothing. Gaps are ordered by importance,
// highest first, with catalog order breaking ties.
func AnalyzeGaps(userSkills []types.Skill, demand []types.DemandSkill) []types.SkillGap {
	held := Index(userSkills)
	gaps := make([]types.SkillGap, 0, len(demand))

	for _, d := range demand {
		userSkill, ok := held[Key(d.Name)]
		switch {
		case !ok:
			gaps = append(gaps, types.SkillGap{
				SkillName:        d.Name,
				Category:         d.Category,
				Importance:       d.Importance,
				RecommendedLevel: d.RecommendedLevel,
			})
		case userSkill.Level < d.RecommendedLevel:
			level := userSkill.Level
			gaps = append(gaps, types.SkillGap{
				SkillName:        d.Name,
				Category:         d.Category,
				Importance:       d.Importance,
				CurrentLevel:     &level,
				RecommendedLevel: d.RecommendedLevel,
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Importance > gaps[j].Importance
	})

	return gaps
}

// FindGap returns the gap for skillName (case-insensitive), if any.
func FindGap(gaps []types.SkillGap, skillName string) (types.SkillGap, bool) {
	key := Key(skillName)
	for _, g := range gaps {
		if Key(g.SkillName) == key {
			return g, true
		}
	}
	return types.SkillGap{}, false
}
