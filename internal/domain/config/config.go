package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	domainerr "mxdocs/internal/domain/errors"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Build  BuildConfig  `yaml:"build"`
	Matrix MatrixConfig `yaml:"matrix"`
	Pages  []PageConfig `yaml:"pages"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	SiteURL     string `yaml:"site_url"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type BuildConfig struct {
	SourceDir string    `yaml:"source_dir"`
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	BasePath  string    `yaml:"base_path"`
	IndexPath string    `yaml:"index_path"`
	Force     bool      `yaml:"force"`
	Now       time.Time `yaml:"-"`
}

type MatrixConfig struct {
	// RoomBase is prefixed to a room alias to build a join link.
	RoomBase string `yaml:"room_base"`
}

// PageConfig describes one grouped catalog page.
type PageConfig struct {
	Name         string `yaml:"name"`
	Path         string `yaml:"path"`
	Title        string `yaml:"title"`
	Category     string `yaml:"category"`
	FeaturedOnly bool   `yaml:"featured_only"`
	GroupField   string `yaml:"group_field"`
	// Intro is markdown shown above the table of contents.
	Intro string `yaml:"intro"`
}

const DefaultGroupField = "bridges"

func DefaultBridgesPage() PageConfig {
	return PageConfig{
		Name:         "bridges",
		Path:         "/docs/projects/bridges",
		Title:        "Bridges",
		Category:     "bridge",
		FeaturedOnly: true,
		GroupField:   DefaultGroupField,
		Intro: "An important idea in Matrix is *Interoperability*. This means that Matrix is open to " +
			"exchanging data and messages with other platforms using an " +
			"[Open Standard](https://matrix.org/docs/spec). We refer to the connection to other " +
			"platforms as *bridging*.\n\nCurrently recommended bridges are shown in the grid below.",
	}
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Matrix.org",
			SiteURL:  "https://matrix.org",
			Theme:    "default",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir: "content",
			PublicDir: "public",
			ThemeDir:  "themes",
			BasePath:  "",
			IndexPath: ".mxdocs/index.db",
			Now:       time.Now(),
		},
		Matrix: MatrixConfig{
			RoomBase: "https://matrix.to/#/",
		},
		Pages: []PageConfig{DefaultBridgesPage()},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ThemeDir) == "" {
		ve.Add("build.theme_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if bp := strings.TrimSpace(c.Build.BasePath); bp != "" {
		if !strings.HasPrefix(bp, "/") {
			ve.Add("build.base_path", "must start with '/'")
		}
		if strings.HasSuffix(bp, "/") && bp != "/" {
			ve.Add("build.base_path", "must not end with '/'")
		}
	}

	if rb := strings.TrimSpace(c.Matrix.RoomBase); rb != "" && !isValidAbsURL(rb) {
		ve.Add("matrix.room_base", "must be a valid absolute URL")
	}

	if len(c.Pages) == 0 {
		ve.Add("pages", "at least one page is required")
	}
	names := make(map[string]struct{}, len(c.Pages))
	paths := make(map[string]struct{}, len(c.Pages))
	for i, p := range c.Pages {
		field := fmt.Sprintf("pages[%d]", i)
		name := strings.TrimSpace(p.Name)
		if name == "" {
			ve.Add(field+".name", "must not be empty")
		} else if _, dup := names[name]; dup {
			ve.Addf(field+".name", "duplicate page name %q", name)
		} else {
			names[name] = struct{}{}
		}

		path := strings.TrimSpace(p.Path)
		switch {
		case path == "":
			ve.Add(field+".path", "must not be empty")
		case !strings.HasPrefix(path, "/"):
			ve.Add(field+".path", "must start with '/'")
		default:
			if _, dup := paths[CleanPagePath(path)]; dup {
				ve.Addf(field+".path", "duplicate page path %q", path)
			}
			paths[CleanPagePath(path)] = struct{}{}
		}

		if strings.TrimSpace(p.Title) == "" {
			ve.Add(field+".title", "must not be empty")
		}
		if strings.TrimSpace(p.Category) == "" {
			ve.Add(field+".category", "must not be empty")
		}
	}

	return ve.Err()
}

// GroupFieldOrDefault returns the front matter field a page groups by.
func (p PageConfig) GroupFieldOrDefault() string {
	if f := strings.TrimSpace(p.GroupField); f != "" {
		return f
	}
	return DefaultGroupField
}

// CleanPagePath trims surrounding slashes and spaces: "/docs/x/" -> "docs/x".
func CleanPagePath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load reads path over Default(). Keys present in the file win.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		var ve domainerr.ValidationError
		if errors.As(err, &ve) {
			return cfg, ve.WithSource(path)
		}
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default() when path does
// not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
