package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	domainbuild "mxdocs/internal/domain/build"
	"mxdocs/internal/domain/content"
	domainerr "mxdocs/internal/domain/errors"

	"golang.org/x/sync/errgroup"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Record content.Record
	Warns  []Warning
	Skip   bool
}

type Options struct {
	SourceDir string
	// GroupField fills Record.GroupKey. Empty means "bridges".
	GroupField string
	// Workers bounds concurrent file reads. Zero means GOMAXPROCS.
	Workers int
}

// Ingest reads every content file under opt.SourceDir. Records come back in
// discovery order regardless of which worker finished first. Files that
// cannot be parsed or validated are skipped with a warning; I/O errors abort.
func Ingest(ctx context.Context, opt Options) ([]content.Record, []Warning, error) {
	files, err := DiscoverSource(opt.SourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", opt.SourceDir, err)
	}
	groupField := strings.TrimSpace(opt.GroupField)
	if groupField == "" {
		groupField = "bridges"
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sf := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := readRecord(sf, groupField)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []content.Record
	var warns []Warning
	for _, r := range results {
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		out = append(out, r.Record)
	}

	seen := make(map[string]string, len(out))
	filtered := make([]content.Record, 0, len(out))
	for _, r := range out {
		if prev, ok := seen[r.Slug]; ok {
			warns = append(warns, Warning{
				Path: r.Body.SourcePath,
				Msg:  fmt.Sprintf("duplicate slug %q (already used by %s), skipped", r.Slug, prev),
			})
			continue
		}
		seen[r.Slug] = r.Body.SourcePath
		filtered = append(filtered, r)
	}
	return filtered, warns, nil
}

func readRecord(sf SourceFile, groupField string) (Result, error) {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", sf.Path, err)
	}

	fm, _, fmErr := ParseFrontMatter(raw)
	switch {
	case errors.Is(fmErr, errNoFrontMatter):
		return Result{Skip: true, Warns: []Warning{{Path: sf.Path, Msg: "no front matter, skipped"}}}, nil
	case fmErr != nil:
		return Result{Skip: true, Warns: []Warning{{
			Path: sf.Path,
			Msg:  "failed to parse front matter: " + fmErr.Error(),
		}}}, nil
	}

	rec := content.Record{
		Title:       fm.Title,
		Slug:        ResolveSlug(fm, sf.Path),
		Author:      fm.Author,
		Repo:        fm.Repo,
		Language:    fm.Language,
		Room:        fm.Room,
		Maturity:    fm.Maturity,
		Thumbnail:   fm.Thumbnail,
		Description: fm.Description,
		Categories:  fm.Categories,
		Featured:    fm.Featured,
		Fields:      fm.Fields,
		Body: content.BodyRef{
			SourcePath:  sf.Path,
			ContentHash: domainbuild.HashBytes(raw),
		},
	}
	rec = rec.WithGroupField(groupField)
	rec.Normalize()

	if err := rec.Validate(); err != nil {
		var ve domainerr.ValidationError
		if errors.As(err, &ve) {
			var warns []Warning
			for _, it := range ve.Items {
				warns = append(warns, Warning{Path: sf.Path, Msg: it.Error()})
			}
			return Result{Skip: true, Warns: warns}, nil
		}
		return Result{}, err
	}

	return Result{Record: rec}, nil
}
