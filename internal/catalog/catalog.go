// Package catalog groups content records into an ordered table of contents
// and per-group sections.
package catalog

import "mxdocs/internal/domain/content"

// GroupSummary is one table of contents entry. Its display attributes come
// from the first record seen with the key.
type GroupSummary struct {
	GroupKey  string
	Title     string
	Thumbnail string
}

// Section is one group with its records in content order.
type Section struct {
	Summary GroupSummary
	Records []content.Record
}

// BuildTableOfContents returns one summary per distinct group key, in order
// of first appearance.
func BuildTableOfContents(records []content.Record) []GroupSummary {
	seen := make(map[string]struct{}, len(records))
	out := make([]GroupSummary, 0)
	for _, r := range records {
		if _, ok := seen[r.GroupKey]; ok {
			continue
		}
		seen[r.GroupKey] = struct{}{}
		out = append(out, GroupSummary{
			GroupKey:  r.GroupKey,
			Title:     r.GroupKey,
			Thumbnail: r.Thumbnail,
		})
	}
	return out
}

// RecordsForGroup is a stable filter on GroupKey. A key with no records
// yields an empty slice.
func RecordsForGroup(records []content.Record, groupKey string) []content.Record {
	out := make([]content.Record, 0)
	for _, r := range records {
		if r.GroupKey == groupKey {
			out = append(out, r)
		}
	}
	return out
}

// Sections pairs every table of contents entry with its records.
func Sections(records []content.Record) []Section {
	toc := BuildTableOfContents(records)
	out := make([]Section, 0, len(toc))
	for _, g := range toc {
		out = append(out, Section{
			Summary: g,
			Records: RecordsForGroup(records, g.GroupKey),
		})
	}
	return out
}
