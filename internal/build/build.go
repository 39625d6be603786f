package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	domainbuild "mxdocs/internal/domain/build"
	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/content"
	"mxdocs/internal/index"
	"mxdocs/internal/ingest"
	"mxdocs/internal/pkg/logger"
	"mxdocs/internal/render"

	"gopkg.in/yaml.v3"
)

type Builder struct {
	Cfg config.Config
	Log *logger.Logger
}

type Result struct {
	Pages    int
	Written  int
	Skipped  int
	Records  int
	Warnings []ingest.Warning
}

func (b *Builder) log() *logger.Logger {
	if b.Log == nil {
		return logger.Nop()
	}
	return b.Log
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	recs, warns, err := ingest.Ingest(ctx, ingest.Options{
		SourceDir:  b.Cfg.Build.SourceDir,
		GroupField: config.DefaultGroupField,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	b.log().Info("ingested content", "records", len(recs), "warnings", len(warns))

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()
	b.log().Debug("index opened", "path", st.Path())

	if err := st.Rebuild(recs); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	md := render.NewMarkdownRenderer()
	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", b.Cfg.Build.ThemeDir, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	res := &Result{Records: len(recs), Warnings: warns}
	pb := NewPageBuilder(b.Cfg, md, tpl)
	for _, r := range pb.Routes.Build(b.Cfg.Pages) {
		b.log().Debug("route", "route", r.String())
	}

	for _, page := range b.Cfg.Pages {
		if err := b.buildCatalog(ctx, st, pb, tpl, md, outDir, page, res); err != nil {
			return nil, fmt.Errorf("build page %s: %w", page.Name, err)
		}
	}

	nf, err := pb.RenderNotFound(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("build 404: %w", err)
	}
	if err := writeFile(outDir, pb.Routes.NotFoundRoute().OutPath, nf); err != nil {
		return nil, err
	}

	if err := copyStatic(tpl, outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	return res, nil
}

func (b *Builder) buildCatalog(
	ctx context.Context,
	st *index.Store,
	pb *PageBuilder,
	tpl *render.TemplateRenderer,
	md *render.MarkdownRenderer,
	outDir string,
	page config.PageConfig,
	res *Result,
) error {
	res.Pages++
	route := pb.Routes.CatalogRoute(page)
	log := b.log().With("page", page.Name, "out", route.OutPath)

	records, err := st.Query(index.Filter{
		Category:     page.Category,
		FeaturedOnly: page.FeaturedOnly,
	})
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	grouped, warns := pb.Prepare(page, records)
	res.Warnings = append(res.Warnings, warns...)

	fp, err := b.fingerprint(page, grouped, tpl, md)
	if err != nil {
		return err
	}
	if !b.Cfg.Build.Force && upToDate(st, outDir, route.OutPath, fp.RenderHash) {
		log.Debug("page unchanged, skipped")
		res.Skipped++
		return nil
	}

	out, err := pb.RenderPrepared(ctx, page, grouped)
	if err != nil {
		return err
	}
	if err := writeFile(outDir, route.OutPath, out); err != nil {
		return err
	}
	if err := st.PutRenderHash(route.OutPath, fp.RenderHash); err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	res.Written++
	log.Info("page written", "records", len(grouped))
	return nil
}

func (b *Builder) fingerprint(
	page config.PageConfig,
	records []content.Record,
	tpl *render.TemplateRenderer,
	md *render.MarkdownRenderer,
) (domainbuild.Fingerprint, error) {
	parts := make([]string, 0, 2*len(records))
	for _, r := range records {
		parts = append(parts, r.Slug, r.Body.ContentHash)
	}

	cfgBytes, err := yaml.Marshal(struct {
		Site     config.SiteConfig   `yaml:"site"`
		Matrix   config.MatrixConfig `yaml:"matrix"`
		BasePath string              `yaml:"base_path"`
		Page     config.PageConfig   `yaml:"page"`
	}{b.Cfg.Site, b.Cfg.Matrix, b.Cfg.Build.BasePath, page})
	if err != nil {
		return domainbuild.Fingerprint{}, fmt.Errorf("hash config: %w", err)
	}

	fp := domainbuild.Fingerprint{
		ContentHash:  domainbuild.HashStrings(parts...),
		ThemeHash:    tpl.Hash(),
		ConfigHash:   domainbuild.HashBytes(cfgBytes),
		RendererHash: domainbuild.HashStrings(md.Version()),
	}
	fp.ComputeRenderHash()
	return fp, nil
}

func upToDate(st *index.Store, outDir, rel, hash string) bool {
	prev, err := st.RenderHash(rel)
	if err != nil || prev != hash {
		return false
	}
	_, err = os.Stat(filepath.Join(outDir, rel))
	return err == nil
}

func writeFile(outDir, rel string, data []byte) error {
	p := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func copyStatic(tpl *render.TemplateRenderer, outDir string) error {
	static, err := tpl.Static()
	if err != nil {
		return err
	}
	err = fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		return writeFile(outDir, filepath.FromSlash(path), data)
	})
	if errors.Is(err, fs.ErrNotExist) {
		// theme without static/
		return nil
	}
	return err
}
