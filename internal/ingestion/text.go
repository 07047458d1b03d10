package ingestion

import (
	"regexp"
	"strings"
)

var (
	// disallowedChars matches anything other than word characters, whitespace and common punctuation.
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s.,;:\-@#+/()]`)
	inlineSpace     = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRuns   = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted document text: line endings become LF, characters outside
// letters, digits, whitespace and ". , ; : - @ # + / ( )" are dropped, runs of spaces are
// collapsed, and blank lines are limited to one in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = disallowedChars.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLineRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	return strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
}
