// Package skills normalizes user skill records and compares them against the
// market demand catalog.
package skills

import (
	"strings"

	"github.com/jonathan/career-guide/internal/types"
)

// Key returns the case-insensitive match key for a skill name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CategoryLookup resolves a category for a skill name. It must never fail;
// unknown skills map to a default category.
type CategoryLookup func(skillName string) string

// Normalize prepares raw skill records for analysis.
// Blank names are dropped, levels are clamped into 1..5, a blank category is
// resolved through lookup, and duplicate names (case-insensitive) collapse into
// the first record carrying the highest level seen.
func Normalize(raw []types.Skill, lookup CategoryLookup) []types.Skill {
	out := make([]types.Skill, 0, len(raw))
	index := make(map[string]int, len(raw))

	for _, s := range raw {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}

		level := ClampLevel(s.Level)
		category := strings.TrimSpace(s.Category)
		if category == "" && lookup != nil {
			category = lookup(name)
		}

		key := Key(name)
		if i, seen := index[key]; seen {
			if level > out[i].Level {
				out[i].Level = level
			}
			continue
		}

		index[key] = len(out)
		out = append(out, types.Skill{Name: name, Category: category, Level: level})
	}

	return out
}

// ClampLevel forces a proficiency level into the ordinal 1..5 scale.
func ClampLevel(level int) int {
	if level < types.MinSkillLevel {
		return types.MinSkillLevel
	}
	if level > types.MaxSkillLevel {
		return types.MaxSkillLevel
	}
	return level
}

// Index maps match keys to the user's skills.
func Index(userSkills []types.Skill) map[string]types.Skill {
	idx := make(map[string]types.Skill, len(userSkills))
	for _, s := range userSkills {
		key := Key(s.Name)
		if _, exists := idx[key]; !exists {
			idx[key] = s
		}
	}
	return idx
}
