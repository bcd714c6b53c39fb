package model

// SourceMeta describes where the searched text came from.
type SourceMeta struct {
	URL      string
	Title    string
	BookID   string
	CoverURL string
	Pasted   bool
}

// Label is the short description shown in headers.
func (s SourceMeta) Label() string {
	switch {
	case s.Title != "" && s.BookID != "":
		return s.Title + " (#" + s.BookID + ")"
	case s.Title != "":
		return s.Title
	case s.URL != "":
		return s.URL
	}
	return "no text"
}
