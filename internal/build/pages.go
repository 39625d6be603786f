package build

import (
	"context"
	"fmt"
	"html/template"
	"os"

	"mxdocs/internal/app"
	"mxdocs/internal/catalog"
	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/content"
	"mxdocs/internal/ingest"
	"mxdocs/internal/render"
	"mxdocs/internal/slug"
)

// ungroupedLabel titles the section of records with an empty group key.
const ungroupedLabel = "Other"

// PageBuilder turns queried records into rendered catalog pages. It is
// shared by the static build and the dev server.
type PageBuilder struct {
	Cfg        config.Config
	MD         *render.MarkdownRenderer
	Tpl        render.Renderer
	Routes     *app.RouteBuilder
	LiveReload bool
}

func NewPageBuilder(cfg config.Config, md *render.MarkdownRenderer, tpl render.Renderer) *PageBuilder {
	return &PageBuilder{
		Cfg:    cfg,
		MD:     md,
		Tpl:    tpl,
		Routes: app.NewRouteBuilder(cfg),
	}
}

func (p *PageBuilder) chrome(headTitle string) render.Chrome {
	return render.Chrome{
		Site:       p.Cfg.Site,
		HeadTitle:  headTitle,
		BasePath:   p.Cfg.Build.BasePath,
		LiveReload: p.LiveReload,
	}
}

// Prepare regroups records by the page's group field. Records repeating a
// title already on the page are dropped, and records with no value for the
// group field are kept but reported.
func (p *PageBuilder) Prepare(page config.PageConfig, records []content.Record) ([]content.Record, []ingest.Warning) {
	field := page.GroupFieldOrDefault()

	var warns []ingest.Warning
	titles := make(map[string]string, len(records))
	grouped := make([]content.Record, 0, len(records))
	for _, r := range records {
		if prev, ok := titles[r.Title]; ok {
			warns = append(warns, ingest.Warning{
				Path: r.Body.SourcePath,
				Msg:  fmt.Sprintf("page %s: title %q already used by %s, skipped", page.Name, r.Title, prev),
			})
			continue
		}
		titles[r.Title] = r.Body.SourcePath
		r = r.WithGroupField(field)
		if r.GroupKey == "" {
			warns = append(warns, ingest.Warning{
				Path: r.Body.SourcePath,
				Msg:  fmt.Sprintf("page %s: empty group field %q", page.Name, field),
			})
		}
		grouped = append(grouped, r)
	}
	return grouped, warns
}

// CatalogPage prepares records and builds the page view.
func (p *PageBuilder) CatalogPage(
	ctx context.Context,
	page config.PageConfig,
	records []content.Record,
) (render.CatalogPage, []ingest.Warning, error) {
	grouped, warns := p.Prepare(page, records)
	view, err := p.View(ctx, page, grouped)
	return view, warns, err
}

// View renders every body of already prepared records into a page view.
func (p *PageBuilder) View(
	ctx context.Context,
	page config.PageConfig,
	grouped []content.Record,
) (render.CatalogPage, error) {
	intro, err := p.MD.Render([]byte(page.Intro), "intro")
	if err != nil {
		return render.CatalogPage{}, fmt.Errorf("render intro(%s): %w", page.Name, err)
	}

	sections := mergeUngrouped(catalog.Sections(grouped))
	view := render.CatalogPage{
		Chrome:    p.chrome(fmt.Sprintf("%s | %s", page.Title, p.Cfg.Site.Title)),
		Name:      page.Name,
		Title:     page.Title,
		Anchor:    slug.Make(page.Title),
		Intro:     template.HTML(intro),
		TOC:       make([]render.TOCItem, 0, len(sections)),
		Sections:  make([]render.SectionView, 0, len(sections)),
		Total:     len(grouped),
		Generated: p.Cfg.Build.Now,
	}

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return render.CatalogPage{}, err
		}
		name, anchor := groupLabel(s.Summary)
		view.TOC = append(view.TOC, render.TOCItem{
			Name:      name,
			Anchor:    anchor,
			Thumbnail: s.Summary.Thumbnail,
		})

		sv := render.SectionView{
			Name:    name,
			Anchor:  anchor,
			Entries: make([]render.EntryView, 0, len(s.Records)),
		}
		for _, r := range s.Records {
			ev, err := p.entry(r)
			if err != nil {
				return render.CatalogPage{}, err
			}
			sv.Entries = append(sv.Entries, ev)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

func (p *PageBuilder) entry(r content.Record) (render.EntryView, error) {
	anchor := slug.Make(r.Title)
	var body []byte
	if r.Body.SourcePath != "" {
		src, err := os.ReadFile(r.Body.SourcePath)
		if err != nil {
			return render.EntryView{}, fmt.Errorf("read body(%s): %w", r.Body.SourcePath, err)
		}
		body = ingest.StripFrontMatter(src)
	}
	html, err := p.MD.Render(body, anchor)
	if err != nil {
		return render.EntryView{}, fmt.Errorf("markdown render(%s): %w", r.Slug, err)
	}
	return render.EntryView{
		Key:     r.Key(),
		Anchor:  anchor,
		Record:  r,
		RoomURL: roomURL(p.Cfg.Matrix.RoomBase, r.Room),
		HTML:    template.HTML(html),
	}, nil
}

func (p *PageBuilder) RenderCatalog(
	ctx context.Context,
	page config.PageConfig,
	records []content.Record,
) ([]byte, []ingest.Warning, error) {
	grouped, warns := p.Prepare(page, records)
	out, err := p.RenderPrepared(ctx, page, grouped)
	return out, warns, err
}

// RenderPrepared is RenderCatalog for records that went through Prepare.
func (p *PageBuilder) RenderPrepared(
	ctx context.Context,
	page config.PageConfig,
	grouped []content.Record,
) ([]byte, error) {
	view, err := p.View(ctx, page, grouped)
	if err != nil {
		return nil, err
	}
	out, err := p.Tpl.RenderCatalog(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("render page(%s): %w", page.Name, err)
	}
	return out, nil
}

func (p *PageBuilder) RenderNotFound(ctx context.Context, path string) ([]byte, error) {
	links := make([]render.PageLink, 0, len(p.Cfg.Pages))
	for _, pg := range p.Cfg.Pages {
		links = append(links, render.PageLink{
			Title: pg.Title,
			URL:   p.Routes.CatalogRoute(pg).URLPath,
		})
	}
	return p.Tpl.RenderNotFound(ctx, render.NotFoundPage{
		Chrome: p.chrome(fmt.Sprintf("Not found | %s", p.Cfg.Site.Title)),
		Path:   path,
		Pages:  links,
	})
}

// mergeUngrouped folds the empty-key section into a real group whose anchor
// is the ungrouped anchor, so the page never carries the same anchor twice.
// The merged records follow the group's own records.
func mergeUngrouped(sections []catalog.Section) []catalog.Section {
	empty, named := -1, -1
	for i, s := range sections {
		switch {
		case s.Summary.GroupKey == "":
			empty = i
		case slug.Make(s.Summary.GroupKey) == slug.Make(ungroupedLabel):
			if named < 0 {
				named = i
			}
		}
	}
	if empty < 0 || named < 0 {
		return sections
	}
	out := make([]catalog.Section, 0, len(sections)-1)
	for i, s := range sections {
		switch i {
		case empty:
			continue
		case named:
			recs := make([]content.Record, 0, len(s.Records)+len(sections[empty].Records))
			recs = append(recs, s.Records...)
			s.Records = append(recs, sections[empty].Records...)
		}
		out = append(out, s)
	}
	return out
}

func groupLabel(g catalog.GroupSummary) (name, anchor string) {
	if g.GroupKey == "" {
		return ungroupedLabel, slug.Make(ungroupedLabel)
	}
	return g.Title, slug.Make(g.GroupKey)
}

func roomURL(base, room string) string {
	if room == "" || base == "" {
		return ""
	}
	return base + room
}
