package utils

import (
	"regexp"
	"strings"
)

var (
	paragraphBreak     = regexp.MustCompile(`\n+`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	boilerplatePattern = regexp.MustCompile(`(?i)copyright|footer|all rights reserved`)
)

// PreprocessText normalizes raw input before summarization:
// duplicate paragraphs are removed (first occurrence wins), boilerplate
// paragraphs (copyright / footer / rights reserved) are dropped and every
// whitespace run is collapsed to a single space.
//
// The output never contains a newline, so PreprocessText(PreprocessText(x)) == PreprocessText(x).
func PreprocessText(text string) string {
	paragraphs := paragraphBreak.Split(text, -1)

	seen := make(map[string]struct{}, len(paragraphs))
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		if boilerplatePattern.MatchString(p) {
			continue
		}
		kept = append(kept, p)
	}

	joined := strings.Join(kept, "\n")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(joined, " "))
}

// CountWords returns the number of whitespace separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
