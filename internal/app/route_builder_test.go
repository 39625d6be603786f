package app

import (
	"path/filepath"
	"testing"

	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/site"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteBuilder_Build(t *testing.T) {
	cfg := config.Default()
	rb := NewRouteBuilder(cfg)

	routes := rb.Build(cfg.Pages)
	require.Len(t, routes, 2)

	assert.Equal(t, site.RouteCatalog, routes[0].Kind)
	assert.Equal(t, "bridges", routes[0].Key)
	assert.Equal(t, "/docs/projects/bridges/", routes[0].URLPath)
	assert.Equal(t, filepath.Join("docs", "projects", "bridges", "index.html"), routes[0].OutPath)

	assert.Equal(t, site.RouteNotFound, routes[1].Kind)
	assert.Equal(t, "/404.html", routes[1].URLPath)
	assert.Equal(t, "404.html", routes[1].OutPath)
}

func TestRouteBuilder_BasePath(t *testing.T) {
	rb := &RouteBuilder{BasePath: "/site"}

	r := rb.CatalogRoute(config.PageConfig{Name: "clients", Path: "/docs/clients/"})
	assert.Equal(t, "/site/docs/clients/", r.URLPath)
	assert.Equal(t, filepath.Join("docs", "clients", "index.html"), r.OutPath)

	root := rb.CatalogRoute(config.PageConfig{Name: "home", Path: "/"})
	assert.Equal(t, "/site/", root.URLPath)
	assert.Equal(t, "index.html", root.OutPath)
}
