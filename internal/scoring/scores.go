package scoring

import (
	"github.com/jonathan/career-guide/internal/types"
)

// Compute derives both composite scores from a profile snapshot. It is pure:
// cached metrics on the profile are ignored.
// The structured resume formula applies when the profile carries a parsed
// resume; otherwise the count-based fallback is used.
func Compute(p *types.Profile) types.Scores {
	if p == nil {
		return types.Scores{
			ResumeScore:        FallbackResumeScore(0, 0),
			InterviewReadiness: InterviewReadiness(nil, 0, 0),
		}
	}

	var resumeScore int
	if p.Resume != nil {
		resumeScore = ResumeScore(p.Resume).Total
	} else {
		resumeScore = FallbackResumeScore(len(p.Education), len(p.Experience))
	}

	return types.Scores{
		ResumeScore:        resumeScore,
		InterviewReadiness: InterviewReadiness(p.Skills, len(p.Education), len(p.Experience)),
	}
}

// FromMetrics converts stored metrics into scores. ok is false unless both
// scores are present.
func FromMetrics(m *types.Metrics) (scores types.Scores, ok bool) {
	if m == nil || m.ResumeScore == nil || m.InterviewScore == nil {
		return types.Scores{}, false
	}
	return types.Scores{
		ResumeScore:        Clamp(*m.ResumeScore),
		InterviewReadiness: Clamp(*m.InterviewScore),
	}, true
}
