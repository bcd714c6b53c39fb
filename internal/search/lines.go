package search

import "strings"

// SplitLines splits text on LF or CRLF boundaries. A trailing line break
// yields a trailing empty line, so "a\nb" has 2 lines and "a\nb\n" has 3.
// Empty text is a single empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	// Only a CR directly before a LF is part of the break.
	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
