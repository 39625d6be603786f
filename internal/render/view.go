package render

import (
	"html/template"
	"time"

	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/content"
)

// Chrome carries what the shared layout needs.
type Chrome struct {
	Site       config.SiteConfig
	HeadTitle  string
	BasePath   string
	LiveReload bool
}

type TOCItem struct {
	Name      string
	Anchor    string
	Thumbnail string
}

type EntryView struct {
	// Key is stable across renders: group key and title.
	Key     string
	Anchor  string
	Record  content.Record
	RoomURL string
	HTML    template.HTML
}

type SectionView struct {
	Name    string
	Anchor  string
	Entries []EntryView
}

type CatalogPage struct {
	Chrome
	Name      string
	Title     string
	Anchor    string
	Intro     template.HTML
	TOC       []TOCItem
	Sections  []SectionView
	Total     int
	Generated time.Time
}

type NotFoundPage struct {
	Chrome
	Path  string
	Pages []PageLink
}

type PageLink struct {
	Title string
	URL   string
}
