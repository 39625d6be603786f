package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func entry(title, group string) string {
	return fmt.Sprintf("---\ntitle: %s\nbridges: %s\ncategories: [bridge]\nfeatured: true\n---\nAbout %s.\n", title, group, title)
}

func TestDiscoverSource_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "x")
	writeFile(t, dir, "a/z.markdown", "x")
	writeFile(t, dir, "c.mdx", "x")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".drafts/hidden.md", "x")

	files, err := DiscoverSource(dir)
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a/z.markdown", "b.md", "c.mdx"}, got)
}

func TestIngest_OrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 40; i++ {
		group := []string{"IRC", "Slack", "XMPP"}[i%3]
		writeFile(t, dir, fmt.Sprintf("%02d.md", i), entry(fmt.Sprintf("bridge-%02d", i), group))
	}

	recs, warns, err := Ingest(context.Background(), Options{SourceDir: dir, Workers: 4})
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, recs, 40)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("bridge-%02d", i), r.Title)
	}
	assert.Equal(t, "IRC", recs[0].GroupKey)
	assert.Equal(t, "Slack", recs[1].GroupKey)
	assert.Equal(t, []string{"bridge"}, recs[0].Categories)
	assert.True(t, recs[0].Featured)
	assert.Len(t, recs[0].Body.ContentHash, 64)
}

func TestIngest_SkipsBadFilesWithWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-ok.md", entry("Heisenbridge", "IRC"))
	writeFile(t, dir, "02-nofm.md", "# no front matter")
	writeFile(t, dir, "03-broken.md", "---\ntitle: [oops\n---\n")
	writeFile(t, dir, "04-notitle.md", "---\nbridges: IRC\n---\nbody")
	writeFile(t, dir, "05-dup.md", entry("Heisenbridge", "IRC"))
	writeFile(t, dir, "06-nogroup.md", "---\ntitle: Lonely\n---\n")
	writeFile(t, dir, "07-badroom.md", "---\ntitle: Roomy\nroom: roomy:example.org\n---\n")

	recs, warns, err := Ingest(context.Background(), Options{SourceDir: dir})
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "Heisenbridge", recs[0].Title)
	assert.Equal(t, "Lonely", recs[1].Title)
	assert.Equal(t, "", recs[1].GroupKey)

	byFile := map[string][]string{}
	for _, w := range warns {
		byFile[filepath.Base(w.Path)] = append(byFile[filepath.Base(w.Path)], w.Msg)
	}
	assert.Contains(t, byFile, "02-nofm.md")
	assert.Contains(t, byFile, "03-broken.md")
	assert.Contains(t, byFile, "04-notitle.md")
	assert.Contains(t, byFile, "05-dup.md")
	assert.NotContains(t, byFile, "06-nogroup.md", "group fields are checked per page")
	assert.Contains(t, byFile, "07-badroom.md")
	assert.NotContains(t, byFile, "01-ok.md")
}

func TestIngest_CustomGroupField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: A\nlanguage: Go\n---\n")

	recs, _, err := Ingest(context.Background(), Options{SourceDir: dir, GroupField: "language"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Go", recs[0].GroupKey)
}

func TestIngest_MissingDir(t *testing.T) {
	_, _, err := Ingest(context.Background(), Options{SourceDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestIngest_Cancelled(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, dir, fmt.Sprintf("%d.md", i), entry(fmt.Sprintf("b%d", i), "IRC"))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Ingest(ctx, Options{SourceDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}
