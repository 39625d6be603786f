package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_String(t *testing.T) {
	r := Route{
		Kind:    RouteCatalog,
		Key:     "bridges",
		URLPath: "/docs/projects/bridges/",
		OutPath: "docs/projects/bridges/index.html",
	}
	assert.Equal(t, "catalog key=bridges url=/docs/projects/bridges/ out=docs/projects/bridges/index.html", r.String())
	assert.Equal(t, "404 out=404.html", Route{Kind: RouteNotFound, OutPath: "404.html"}.String())
}
