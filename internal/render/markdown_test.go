package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRenderer_Render(t *testing.T) {
	md := NewMarkdownRenderer()

	out, err := md.Render([]byte("Bridges **IRC** to Matrix.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"), "")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<strong>IRC</strong>")
	assert.Contains(t, html, "<table>")
}

func TestMarkdownRenderer_PrefixedHeadingIDs(t *testing.T) {
	md := NewMarkdownRenderer()
	src := []byte("## Installation\n\ntext\n\n## Installation\n\nmore\n")

	out, err := md.Render(src, "heisenbridge")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `<h2 id="heisenbridge-installation">`)
	assert.Contains(t, html, `<h2 id="heisenbridge-installation-1">`)

	other, err := md.Render(src, "mautrix-telegram")
	require.NoError(t, err)
	assert.Contains(t, string(other), `<h2 id="mautrix-telegram-installation">`)
	assert.False(t, strings.Contains(string(other), "heisenbridge"))
}

func TestMarkdownRenderer_Version(t *testing.T) {
	assert.NotEmpty(t, NewMarkdownRenderer().Version())
}
