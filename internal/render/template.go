package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	domainbuild "mxdocs/internal/domain/build"
	"mxdocs/internal/slug"
)

//go:embed themes/default
var embeddedThemes embed.FS

var requiredTemplates = []string{
	"layout.tmpl",
	"catalog.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl   *template.Template
	theme fs.FS
	hash  string
}

// NewTemplateRenderer loads <themeDir>/<themeName>. When that directory does
// not exist and themeName is "default", the embedded default theme is used.
func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	theme, err := openTheme(themeDir, themeName)
	if err != nil {
		return nil, err
	}
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", themeName, err)
	}
	hash, err := hashTheme(theme)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl, theme: theme, hash: hash}, nil
}

func openTheme(themeDir, themeName string) (fs.FS, error) {
	dir := filepath.Join(themeDir, themeName)
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		return os.DirFS(dir), nil
	} else if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if themeName != "default" {
		return nil, fmt.Errorf("theme %q not found in %s", themeName, themeDir)
	}
	return fs.Sub(embeddedThemes, "themes/default")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"slug": slug.Make,
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
	}
}

// Hash covers every file of the theme.
func (r *TemplateRenderer) Hash() string {
	return r.hash
}

// Static returns the theme's static/ tree.
func (r *TemplateRenderer) Static() (fs.FS, error) {
	return fs.Sub(r.theme, "static")
}

func (r *TemplateRenderer) RenderCatalog(ctx context.Context, page CatalogPage) ([]byte, error) {
	return r.exec("catalog.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

func hashTheme(theme fs.FS) (string, error) {
	files := make(map[string][]byte)
	err := fs.WalkDir(theme, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		b, err := fs.ReadFile(theme, path)
		if err != nil {
			return err
		}
		files[path] = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hash theme: %w", err)
	}
	return domainbuild.HashFiles(files), nil
}
