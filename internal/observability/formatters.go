// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the text format.
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

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// joinLimited joins at most limit items and notes how many were left out.
func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:limit], ", "), len(items)-limit)
}

// PrintStudentProfile outputs the talents and interests a student submitted.
func (p *Printer) PrintStudentProfile(profile *types.StudentProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Student:  %s\n", profile.ID))
	if profile.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Name))
	}
	if profile.HybridMode.IsSet() {
		sb.WriteString(fmt.Sprintf("Mode:     %s\n", profile.HybridMode))
	}

	if len(profile.Talents) > 0 {
		sb.WriteString("\nTalents:\n")
		count := min(len(profile.Talents), maxItemsToShow)
		for i := 0; i < count; i++ {
			t := profile.Talents[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", t.Name, t.MeasuredScore))
		}
		if len(profile.Talents) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Talents)-maxItemsToShow))
		}
	}

	if len(profile.Interests) > 0 {
		sb.WriteString("\nInterests:\n")
		count := min(len(profile.Interests), maxItemsToShow)
		for i := 0; i < count; i++ {
			in := profile.Interests[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d/5)\n", in.Topic, in.Strength))
		}
		if len(profile.Interests) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Interests)-maxItemsToShow))
		}
	}

	p.printBox("STUDENT PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top ranked career paths with scores and reasoning.
func (p *Printer) PrintRecommendations(recs []types.CareerPathRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Career paths ranked: %d\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.SkillTree))
		sb.WriteString(fmt.Sprintf("    %s / %s\n", rec.Industry, rec.Subfield))
		sb.WriteString(fmt.Sprintf("    Score: %d%%", rec.MatchScore))
		if rec.IsHybrid {
			sb.WriteString(" [hybrid]")
		}
		if rec.CoopAvailable {
			sb.WriteString(" [co-op]")
		}
		sb.WriteString("\n")
		if len(rec.StudentMatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", joinLimited(rec.StudentMatchedSkills, 3)))
		}
		if rec.Reasoning != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", rec.Reasoning))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDED CAREER PATHS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCareerPath outputs one skill tree with its skills and opportunities.
func (p *Printer) PrintCareerPath(path *types.CareerPath) {
	if path == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Industry: %s\n", path.Industry))
	sb.WriteString(fmt.Sprintf("Subfield: %s\n", path.Subfield))
	if path.IsHybrid {
		sb.WriteString(fmt.Sprintf("Hybrid:   %s\n", path.HybridType))
	}

	if len(path.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, s := range path.Skills {
			sb.WriteString(fmt.Sprintf("  • %s", s.Name))
			if len(s.Courses) > 0 {
				sb.WriteString(fmt.Sprintf(" (%d courses)", len(s.Courses)))
			}
			sb.WriteString("\n")
		}
	}

	if len(path.SpecializedTraining) > 0 {
		sb.WriteString("\nTraining:\n")
		for _, t := range path.SpecializedTraining {
			sb.WriteString(fmt.Sprintf("  • %s\n", t.Title))
		}
	}

	active := 0
	for _, c := range path.CoopOpportunities {
		if c.Active {
			active++
		}
	}
	if active > 0 {
		sb.WriteString(fmt.Sprintf("\nCo-ops open: %d\n", active))
	}

	p.printBox(strings.ToUpper(path.Name), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuizResults outputs a one-line summary per saved quiz result.
func (p *Printer) PrintQuizResults(results []types.QuizResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		top := "-"
		if len(r.Recommendations) > 0 {
			top = fmt.Sprintf("%s %d%%", r.Recommendations[0].SkillTree, r.Recommendations[0].MatchScore)
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), name))
		sb.WriteString(fmt.Sprintf("    top: %s\n", top))
	}

	p.printBox(fmt.Sprintf("SAVED QUIZ RESULTS (%d)", len(results)), strings.TrimSuffix(sb.String(), "\n"))
}
