package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ircDoc = `---
title: matrix-appservice-irc
author: Matrix.org team
maturity: Stable
thumbnail: /docs/projects/images/irc.png
bridges: IRC
repo: https://github.com/matrix-org/matrix-appservice-irc
language: TypeScript
room: "#irc:matrix.org"
categories:
  - bridge
featured: true
---

This is the **IRC** bridge.
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte(ircDoc))
	require.NoError(t, err)

	assert.Equal(t, "matrix-appservice-irc", fm.Title)
	assert.Equal(t, "Matrix.org team", fm.Author)
	assert.Equal(t, "#irc:matrix.org", fm.Room)
	assert.Equal(t, []string{"bridge"}, fm.Categories)
	assert.True(t, fm.Featured)
	assert.Equal(t, "IRC", fm.Fields["bridges"])
	assert.Equal(t, "This is the **IRC** bridge.", string(body))
}

func TestParseFrontMatter_CRLF(t *testing.T) {
	raw := "---\r\ntitle: A\r\n---\r\nbody\r\n"
	fm, body, err := ParseFrontMatter([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "A", fm.Title)
	assert.Equal(t, "body", string(body))
}

func TestParseFrontMatter_Edges(t *testing.T) {
	_, _, err := ParseFrontMatter(nil)
	assert.True(t, errors.Is(err, errNoFrontMatter))

	_, body, err := ParseFrontMatter([]byte("# just markdown"))
	assert.True(t, errors.Is(err, errNoFrontMatter))
	assert.Equal(t, "# just markdown", string(body))

	_, _, err = ParseFrontMatter([]byte("---\ntitle: A\nno closing"))
	assert.True(t, errors.Is(err, errInvalidFrontMatter))

	fm, body, err := ParseFrontMatter([]byte("---\n---\nonly body"))
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.NotNil(t, fm.Fields)
	assert.Equal(t, "only body", string(body))

	fm, body, err = ParseFrontMatter([]byte("---\ntitle: Solo\n---"))
	require.NoError(t, err)
	assert.Equal(t, "Solo", fm.Title)
	assert.Empty(t, body)

	_, _, err = ParseFrontMatter([]byte("---\ntitle: [broken\n---\n"))
	assert.Error(t, err)
}

func TestStripFrontMatter(t *testing.T) {
	assert.Equal(t, "This is the **IRC** bridge.", string(StripFrontMatter([]byte(ircDoc))))
	assert.Equal(t, "plain", string(StripFrontMatter([]byte("  plain \n"))))
}

func TestResolveSlug(t *testing.T) {
	assert.Equal(t, "custom-slug", ResolveSlug(FrontMatter{Slug: "Custom Slug", Title: "x"}, "a.md"))
	assert.Equal(t, "mautrix-telegram", ResolveSlug(FrontMatter{Title: "mautrix-telegram"}, "a.md"))
	assert.Equal(t, "my-file", ResolveSlug(FrontMatter{}, "content/My_File.md"))
}
