package site

import (
	"strings"
)

type RouteKind string

const (
	RouteCatalog  RouteKind = "catalog"
	RouteNotFound RouteKind = "404"
)

type Route struct {
	Kind RouteKind
	// Key is the page name for catalog routes.
	Key     string
	URLPath string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.URLPath != "" {
		parts = append(parts, "url="+r.URLPath)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
