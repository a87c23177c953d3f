// Package observability provides formatted output utilities for the CLI text mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-guide/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs every section of a career analysis.
func (p *Printer) PrintAnalysis(analysis *types.CareerAnalysis) {
	if analysis == nil {
		p.PrintInsufficientData()
		return
	}
	p.PrintScores(analysis)
	p.PrintSkillGaps(analysis.SkillGaps)
	p.PrintJobRecommendations(analysis.JobRecommendations)
	p.PrintCourses(analysis.CourseRecommendations)
}

// PrintInsufficientData outputs the notice shown when a profile has no skills.
func (p *Printer) PrintInsufficientData() {
	p.printBox("CAREER ANALYSIS", "Not enough data to analyze.\nAdd skills to your profile and try again.")
}

// PrintScores outputs the composite scores and the strongest skills.
func (p *Printer) PrintScores(analysis *types.CareerAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resume score:         %3d / 100\n", analysis.ResumeScore))
	sb.WriteString(fmt.Sprintf("Interview readiness:  %3d / 100\n", analysis.InterviewReadiness))

	if len(analysis.TopSkills) > 0 {
		sb.WriteString("\nTop skills:\n")
		for _, skill := range analysis.TopSkills {
			sb.WriteString(fmt.Sprintf("  • %s (level %d)\n", skill.Name, skill.Level))
		}
	}

	p.printBox("SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGaps outputs the highest priority skill gaps.
func (p *Printer) PrintSkillGaps(gaps []types.SkillGap) {
	if len(gaps) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(gaps), maxItemsToShow)
	for i := 0; i < count; i++ {
		gap := gaps[i]
		sb.WriteString(fmt.Sprintf("• %s [%s]\n", gap.SkillName, gap.Category))
		if gap.CurrentLevel != nil {
			sb.WriteString(fmt.Sprintf("    Level %d → %d, importance %d\n", *gap.CurrentLevel, gap.RecommendedLevel, gap.Importance))
		} else {
			sb.WriteString(fmt.Sprintf("    Missing → %d, importance %d\n", gap.RecommendedLevel, gap.Importance))
		}
	}
	if len(gaps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(gaps)-maxItemsToShow))
	}

	p.printBox("SKILL GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobRecommendations outputs the top ranked roles with their missing skills.
func (p *Printer) PrintJobRecommendations(jobs []types.JobRecommendation) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s (%d%% match)\n", i+1, job.Title, job.MatchScore))
		if job.AverageSalary != "" {
			sb.WriteString(fmt.Sprintf("    Salary: %s\n", job.AverageSalary))
		}
		if len(job.MissingSkills) > 0 {
			names := make([]string, 0, len(job.MissingSkills))
			for _, gap := range job.MissingSkills {
				names = append(names, gap.SkillName)
			}
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", strings.Join(names, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more roles\n", len(jobs)-maxItemsToShow))
	}

	p.printBox("JOB RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCourses outputs the recommended courses.
func (p *Printer) PrintCourses(courses []types.CourseRecommendation) {
	if len(courses) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(courses), maxItemsToShow)
	for i := 0; i < count; i++ {
		course := courses[i]
		sb.WriteString(fmt.Sprintf("• %s\n", course.Title))
		sb.WriteString(fmt.Sprintf("    %s, %s, %s\n", course.Provider, course.Difficulty, course.Duration))
	}
	if len(courses) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(courses)-maxItemsToShow))
	}

	p.printBox("COURSES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStudyPlan outputs a study plan with its focus skills and milestones.
func (p *Printer) PrintStudyPlan(plan *types.StudyPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s (%d%% match)\n", plan.JobTitle, plan.MatchScore))
	sb.WriteString(fmt.Sprintf("Timeframe:  %s\n", plan.Timeframe))

	if len(plan.SkillsToFocus) > 0 {
		sb.WriteString("\nFocus skills:\n")
		for _, skill := range plan.SkillsToFocus {
			sb.WriteString(fmt.Sprintf("  %d. %s (%d → %d)\n", skill.Priority, skill.Name, skill.CurrentLevel, skill.TargetLevel))
		}
	}

	if len(plan.RecommendedCourses) > 0 {
		sb.WriteString("\nCourses:\n")
		for _, course := range plan.RecommendedCourses {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", course.Title, course.Provider))
		}
	}

	p.printBox("STUDY PLAN", strings.TrimSuffix(sb.String(), "\n"))

	for _, milestone := range plan.Milestones {
		var mb strings.Builder
		mb.WriteString(fmt.Sprintf("%s\n", milestone.Description))
		for _, task := range milestone.Tasks {
			mb.WriteString(fmt.Sprintf("  • %s\n", task))
		}
		p.printBox(fmt.Sprintf("%s (%s)", milestone.Title, milestone.Duration), strings.TrimSuffix(mb.String(), "\n"))
	}
}
