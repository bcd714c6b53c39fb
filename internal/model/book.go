package model

import "fmt"

// Book is a record returned by the catalog service.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	SourceURL string `json:"sourceUrl,omitempty"`
	ImageURL  string `json:"imgUrl,omitempty"`
}

type SearchMode string

const (
	ModeTitle        SearchMode = "title"
	ModeTitleContent SearchMode = "tc"
	ModeClass        SearchMode = "class"
)

func (m SearchMode) Label() string {
	switch m {
	case ModeTitle:
		return "Title"
	case ModeTitleContent:
		return "Title + content"
	case ModeClass:
		return "Advanced"
	default:
		return string(m)
	}
}

// Next cycles title -> tc -> class -> title.
func (m SearchMode) Next() SearchMode {
	switch m {
	case ModeTitle:
		return ModeTitleContent
	case ModeTitleContent:
		return ModeClass
	default:
		return ModeTitle
	}
}

func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case ModeTitle, ModeTitleContent, ModeClass:
		return SearchMode(s), nil
	case "":
		return ModeTitle, nil
	}
	return "", fmt.Errorf("unknown search mode %q (want title, tc or class)", s)
}
