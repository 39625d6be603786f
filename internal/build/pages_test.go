package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mxdocs/internal/domain/config"
	"mxdocs/internal/domain/content"
	"mxdocs/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageBuilder(t *testing.T) *PageBuilder {
	t.Helper()
	tpl, err := render.NewTemplateRenderer(t.TempDir(), "default")
	require.NoError(t, err)
	return NewPageBuilder(config.Default(), render.NewMarkdownRenderer(), tpl)
}

func bodyFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "entry.md")
	require.NoError(t, os.WriteFile(p, []byte("---\ntitle: x\n---\n"+body), 0o644))
	return p
}

func bridge(title, group string) content.Record {
	return content.Record{
		Title:  title,
		Slug:   title,
		Fields: map[string]any{"bridges": group},
	}
}

func TestPageBuilder_CatalogPage(t *testing.T) {
	pb := newPageBuilder(t)

	a := bridge("matrix-appservice-irc", "IRC")
	a.Room = "#irc:matrix.org"
	a.Thumbnail = "/img/irc.png"
	a.Body.SourcePath = bodyFile(t, "The **IRC** bridge.")
	b := bridge("matrix-appservice-slack", "Slack")
	c := bridge("Heisenbridge", "IRC")
	dup := bridge("Heisenbridge", "Slack")
	none := bridge("mystery", "")

	view, warns, err := pb.CatalogPage(context.Background(), config.DefaultBridgesPage(),
		[]content.Record{a, b, c, dup, none})
	require.NoError(t, err)

	require.Len(t, warns, 2)
	assert.Contains(t, warns[0].Msg, "Heisenbridge")
	assert.Equal(t, `page bridges: empty group field "bridges"`, warns[1].Msg)

	assert.Equal(t, "Bridges | Matrix.org", view.HeadTitle)
	assert.Equal(t, 4, view.Total)
	assert.Contains(t, string(view.Intro), "Interoperability")

	require.Len(t, view.TOC, 3)
	assert.Equal(t, render.TOCItem{Name: "IRC", Anchor: "irc", Thumbnail: "/img/irc.png"}, view.TOC[0])
	assert.Equal(t, "slack", view.TOC[1].Anchor)
	assert.Equal(t, render.TOCItem{Name: "Other", Anchor: "other"}, view.TOC[2])

	require.Len(t, view.Sections, 3)
	irc := view.Sections[0]
	require.Len(t, irc.Entries, 2)
	assert.Equal(t, "IRC/matrix-appservice-irc", irc.Entries[0].Key)
	assert.Equal(t, "matrix-appservice-irc", irc.Entries[0].Anchor)
	assert.Equal(t, "https://matrix.to/#/#irc:matrix.org", irc.Entries[0].RoomURL)
	assert.Contains(t, string(irc.Entries[0].HTML), "<strong>IRC</strong>")
	assert.Equal(t, "Heisenbridge", irc.Entries[1].Record.Title)
	assert.Empty(t, irc.Entries[1].RoomURL)
	assert.Empty(t, irc.Entries[1].HTML)
}

func TestPageBuilder_UngroupedJoinsOtherGroup(t *testing.T) {
	pb := newPageBuilder(t)

	none := bridge("mystery", "")
	other := bridge("misc-bridge", "Other")
	other.Thumbnail = "/img/other.png"
	irc := bridge("Heisenbridge", "IRC")

	view, _, err := pb.CatalogPage(context.Background(), config.DefaultBridgesPage(),
		[]content.Record{none, irc, other})
	require.NoError(t, err)

	require.Len(t, view.TOC, 2)
	assert.Equal(t, render.TOCItem{Name: "IRC", Anchor: "irc"}, view.TOC[0])
	assert.Equal(t, render.TOCItem{Name: "Other", Anchor: "other", Thumbnail: "/img/other.png"}, view.TOC[1])

	require.Len(t, view.Sections, 2)
	merged := view.Sections[1]
	assert.Equal(t, "other", merged.Anchor)
	require.Len(t, merged.Entries, 2)
	assert.Equal(t, "Other/misc-bridge", merged.Entries[0].Key)
	assert.Equal(t, "/mystery", merged.Entries[1].Key)

	anchors := map[string]int{}
	for _, s := range view.Sections {
		anchors[s.Anchor]++
	}
	for a, n := range anchors {
		assert.Equal(t, 1, n, "anchor %q", a)
	}
}

func TestPageBuilder_PrepareUsesPageGroupField(t *testing.T) {
	pb := newPageBuilder(t)
	page := config.DefaultBridgesPage()
	page.GroupField = "platform"

	a := bridge("a", "IRC")
	a.Fields["platform"] = "web"
	b := bridge("b", "IRC")

	grouped, warns := pb.Prepare(page, []content.Record{a, b})
	require.Len(t, grouped, 2)
	assert.Equal(t, "web", grouped[0].GroupKey)
	assert.Equal(t, "", grouped[1].GroupKey)
	require.Len(t, warns, 1)
	assert.Equal(t, `page bridges: empty group field "platform"`, warns[0].Msg)
}

func TestPageBuilder_EmptyRecords(t *testing.T) {
	pb := newPageBuilder(t)
	view, warns, err := pb.CatalogPage(context.Background(), config.DefaultBridgesPage(), nil)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Empty(t, view.TOC)
	assert.Empty(t, view.Sections)

	out, _, err := pb.RenderCatalog(context.Background(), config.DefaultBridgesPage(), nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<h1 id="bridges">Bridges</h1>`)
}

func TestPageBuilder_MissingBody(t *testing.T) {
	pb := newPageBuilder(t)
	r := bridge("gone", "IRC")
	r.Body.SourcePath = filepath.Join(t.TempDir(), "deleted.md")

	_, _, err := pb.CatalogPage(context.Background(), config.DefaultBridgesPage(), []content.Record{r})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read body")
}

func TestPageBuilder_Cancelled(t *testing.T) {
	pb := newPageBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := pb.CatalogPage(ctx, config.DefaultBridgesPage(), []content.Record{bridge("a", "IRC")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoomURL(t *testing.T) {
	assert.Equal(t, "https://matrix.to/#/#a:b", roomURL("https://matrix.to/#/", "#a:b"))
	assert.Equal(t, "", roomURL("https://matrix.to/#/", ""))
	assert.Equal(t, "", roomURL("", "#a:b"))
}
