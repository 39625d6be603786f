package content

import (
	"strings"

	domainerr "mxdocs/internal/domain/errors"
)

// Record is one curated catalog entry, e.g. one bridge project.
// Records are built once by ingest and treated as read-only afterwards.
type Record struct {
	GroupKey string
	Title    string
	Slug     string

	Author      string
	Repo        string
	Language    string
	Room        string
	Maturity    string
	Thumbnail   string
	Description string

	Categories []string
	Featured   bool

	// Fields holds every front matter value so the group field can be chosen
	// per page.
	Fields map[string]any

	Body BodyRef
}

type BodyRef struct {
	SourcePath  string
	ContentHash string
}

// Key is a stable identity for list rendering.
func (r Record) Key() string {
	return r.GroupKey + "/" + r.Title
}

func (r Record) HasCategory(cat string) bool {
	cat = strings.ToLower(strings.TrimSpace(cat))
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Field returns the front matter value for name as a string, or "".
func (r Record) Field(name string) string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []any:
		// list values group by their first element
		if len(s) == 0 {
			return ""
		}
		if first, ok := s[0].(string); ok {
			return strings.TrimSpace(first)
		}
		return ""
	default:
		return ""
	}
}

// WithGroupField returns a copy grouped by the named front matter field.
func (r Record) WithGroupField(name string) Record {
	r.GroupKey = r.Field(name)
	return r
}

func (r *Record) Normalize() {
	r.GroupKey = strings.TrimSpace(r.GroupKey)
	r.Title = strings.TrimSpace(r.Title)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Author = strings.TrimSpace(r.Author)
	r.Repo = strings.TrimSpace(r.Repo)
	r.Language = strings.TrimSpace(r.Language)
	r.Room = strings.TrimSpace(r.Room)
	r.Maturity = strings.TrimSpace(r.Maturity)
	r.Thumbnail = strings.TrimSpace(r.Thumbnail)
	r.Description = strings.TrimSpace(r.Description)

	r.Categories = normalizeStrings(r.Categories)
}

// Validate checks the record shape at the content source boundary.
// An empty group key is allowed and forms its own group.
func (r Record) Validate() error {
	var ve domainerr.ValidationError
	if r.Title == "" {
		ve.Add("title", "must not be empty")
	}
	if r.Slug == "" {
		ve.Add("slug", "must not be empty")
	}
	if r.Room != "" && !strings.HasPrefix(r.Room, "#") && !strings.HasPrefix(r.Room, "!") {
		ve.Add("room", "must be a room alias (#...) or room id (!...)")
	}
	return ve.Err()
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
