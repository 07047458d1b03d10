// Package observability provides human-readable output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skill-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer writes boxed summaries of extraction, match and recommendation results.
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList writes "label: a, b, c" wrapped to the box, or "label: none".
func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s: none\n", label)
		return
	}

	shown := items
	if len(shown) > maxItemsToShow {
		shown = shown[:maxItemsToShow]
	}
	line := fmt.Sprintf("%s: %s", label, strings.Join(shown, ", "))
	if len(items) > maxItemsToShow {
		line += fmt.Sprintf(" (+%d more)", len(items)-maxItemsToShow)
	}
	for _, wrapped := range wrap(line, boxWidth-4, "  ") {
		sb.WriteString(wrapped)
		sb.WriteString("\n")
	}
}

// wrap splits text on spaces into lines of at most width runes.
// Continuation lines are prefixed with indent.
func wrap(text string, width int, indent string) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = indent + word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// PrintExtraction outputs the skills found in one document.
func (p *Printer) PrintExtraction(title string, result types.ExtractionResult) {
	var sb strings.Builder
	writeList(&sb, "Technical", result.TechnicalSkills)
	writeList(&sb, "Soft", result.SoftSkills)
	writeList(&sb, "Experience", result.ExperienceKeywords)

	p.printBox(strings.ToUpper(title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs scores and the matched/missing breakdown.
func (p *Printer) PrintMatch(match types.MatchResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:     %5.1f%%  %s\n", match.OverallScore, scoreBar(match.OverallScore))
	fmt.Fprintf(&sb, "Skills:      %5.1f%%  %s\n", match.SkillMatchScore, scoreBar(match.SkillMatchScore))
	fmt.Fprintf(&sb, "Experience:  %5.1f%%  %s\n", match.ExperienceMatchScore, scoreBar(match.ExperienceMatchScore))
	sb.WriteString("\n")

	cats := match.SkillCategories
	writeList(&sb, "Matched technical", cats.MatchedTechnical)
	writeList(&sb, "Missing technical", cats.MissingTechnical)
	writeList(&sb, "Matched soft", cats.MatchedSoft)
	writeList(&sb, "Missing soft", cats.MissingSoft)

	p.printBox("MATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs suggestions, resume improvements and the assessment.
func (p *Printer) PrintRecommendation(rec types.Recommendation) {
	var sb strings.Builder

	if len(rec.Suggestions) > 0 {
		sb.WriteString("Learning suggestions:\n")
		for i, s := range rec.Suggestions {
			fmt.Fprintf(&sb, "#%d  %s [%s, %s]\n", i+1, s.Skill, s.Priority, s.Category)
			for _, line := range wrap(s.Suggestion, boxWidth-8, "") {
				fmt.Fprintf(&sb, "    %s\n", line)
			}
		}
		sb.WriteString("\n")
	}

	if len(rec.ResumeImprovements) > 0 {
		sb.WriteString("Resume improvements:\n")
		for _, imp := range rec.ResumeImprovements {
			for _, line := range wrap("• "+imp, boxWidth-6, "  ") {
				fmt.Fprintf(&sb, "  %s\n", line)
			}
		}
		sb.WriteString("\n")
	}

	for _, line := range wrap(rec.OverallAssessment, boxWidth-4, "") {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVocabularySummary outputs the vocabulary version and term counts.
func (p *Printer) PrintVocabularySummary(version string, counts map[types.Category]int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version: %s\n", version)
	for _, c := range types.AllCategories {
		fmt.Fprintf(&sb, "%-12s %d terms\n", c.String()+":", counts[c])
	}
	p.printBox("VOCABULARY", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreBar renders a 0-100 score as a 20-cell bar.
func scoreBar(score float64) string {
	const cells = 20
	filled := int(score/100*cells + 0.5)
	filled = max(0, min(cells, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}
