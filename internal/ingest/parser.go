package ingest

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"mxdocs/internal/slug"

	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

type FrontMatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Author      string `yaml:"author"`
	Maturity    string `yaml:"maturity"`
	Description string `yaml:"description"`
	Thumbnail   string `yaml:"thumbnail"`
	Repo        string `yaml:"repo"`
	Language    string `yaml:"language"`
	Room        string `yaml:"room"`

	Categories []string `yaml:"categories"`
	Featured   bool     `yaml:"featured"`

	// Fields is the whole front matter document, including group fields
	// such as "bridges".
	Fields map[string]any `yaml:"-"`
}

// ParseFrontMatter splits raw into front matter and body. Without a leading
// "---" line it returns errNoFrontMatter and the whole input as body.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return FrontMatter{}, raw, errNoFrontMatter
	}

	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, raw, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte
	switch {
	case bytes.HasPrefix(rest, []byte(sepLine)):
		// "---\n---\nbody": empty front matter
		bodyPart = rest[len(sepLine):]
	case bytes.Equal(bytes.TrimSpace(rest), []byte(sep)):
		// "---\n---" with no body
	default:
		if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
			yamlPart, bodyPart = parts[0], parts[1]
		} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
			yamlPart = rest[:len(rest)-len("\n"+sep)]
		} else {
			return FrontMatter{}, raw, errInvalidFrontMatter
		}
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, raw, err
		}
		if err := yaml.Unmarshal(yamlPart, &fm.Fields); err != nil {
			return FrontMatter{}, raw, err
		}
	}
	if fm.Fields == nil {
		fm.Fields = map[string]any{}
	}
	return fm, bodyPart, nil
}

// StripFrontMatter returns only the markdown body of a source file.
func StripFrontMatter(raw []byte) []byte {
	_, body, err := ParseFrontMatter(raw)
	if err != nil {
		return bytes.TrimSpace(raw)
	}
	return body
}

func ResolveSlug(fm FrontMatter, path string) string {
	if s := strings.TrimSpace(fm.Slug); s != "" {
		return slug.Make(s)
	}
	if t := strings.TrimSpace(fm.Title); t != "" {
		return slug.Make(t)
	}
	base := filepath.Base(path)
	return slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
}
