package app

import (
	"path"
	"path/filepath"
	"strings"

	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/site"
)

type RouteBuilder struct {
	BasePath string
}

func NewRouteBuilder(cfg config.Config) *RouteBuilder {
	return &RouteBuilder{BasePath: strings.TrimSpace(cfg.Build.BasePath)}
}

// CatalogRoute maps a page to its URL (with base path) and its output file
// relative to the public dir. Output paths never include the base path.
func (rb *RouteBuilder) CatalogRoute(p config.PageConfig) site.Route {
	clean := config.CleanPagePath(p.Path)
	out := filepath.Join(filepath.FromSlash(clean), "index.html")
	return site.Route{
		Kind:    site.RouteCatalog,
		Key:     p.Name,
		URLPath: rb.url(clean),
		OutPath: out,
	}
}

func (rb *RouteBuilder) NotFoundRoute() site.Route {
	return site.Route{
		Kind:    site.RouteNotFound,
		URLPath: rb.url("404.html"),
		OutPath: "404.html",
	}
}

func (rb *RouteBuilder) Build(pages []config.PageConfig) []site.Route {
	routes := make([]site.Route, 0, len(pages)+1)
	for _, p := range pages {
		routes = append(routes, rb.CatalogRoute(p))
	}
	return append(routes, rb.NotFoundRoute())
}

func (rb *RouteBuilder) url(clean string) string {
	base := strings.TrimSuffix(rb.BasePath, "/")
	if clean == "" {
		return base + "/"
	}
	u := path.Join("/", base, clean)
	if !strings.HasSuffix(clean, ".html") {
		u += "/"
	}
	return u
}
