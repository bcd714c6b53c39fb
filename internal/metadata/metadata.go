// Package metadata derives display annotations from fetched texts and their
// URLs. Every helper is pure; a heuristic that finds nothing reports false.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TitleScanLines is how many leading lines ExtractTitle inspects.
const TitleScanLines = 250

var titleLine = regexp.MustCompile(`(?i)^Title:\s*(.*)$`)

// Book id patterns, tried in order:
//
//	.../pg77012.txt
//	.../77012.txt
//	.../1661-0.txt  (the part before the dash)
var bookIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)pg(\d+)\.txt$`),
	regexp.MustCompile(`(?i)/(\d+)\.txt$`),
	regexp.MustCompile(`(?i)/(\d+)[-_]\d+\.txt$`),
}

// ExtractTitle returns the value of the first "Title:" line within the
// first TitleScanLines lines of text.
func ExtractTitle(text string) (string, bool) {
	for i := 0; i < TitleScanLines && text != ""; i++ {
		line, rest, _ := strings.Cut(text, "\n")
		text = rest
		line = strings.TrimSuffix(line, "\r")
		if m := titleLine.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// ExtractBookID derives a Project Gutenberg id from a text URL.
func ExtractBookID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, re := range bookIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// CoverURL is the medium cover image for a Gutenberg book id.
func CoverURL(id string) string {
	return fmt.Sprintf("https://www.gutenberg.org/cache/epub/%s/pg%s.cover.medium.jpg", id, id)
}

// BookPageURL is the landing page for a catalog book. A source URL from the
// catalog wins over the Gutenberg page derived from the id.
func BookPageURL(id int64, sourceURL string) string {
	if sourceURL != "" {
		return sourceURL
	}
	return fmt.Sprintf("https://www.gutenberg.org/ebooks/%d", id)
}

// ShortTitle is the text printed on a generated cover: the first eight
// letters of a one-word title, or the initials of the first two words.
func ShortTitle(title string) string {
	words := strings.Fields(title)
	switch len(words) {
	case 0:
		return "BOOK"
	case 1:
		w := words[0]
		if utf8.RuneCountInString(w) > 8 {
			w = string([]rune(w)[:8])
		}
		return strings.ToUpper(w)
	}
	var b strings.Builder
	for _, w := range words[:2] {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
