package ingest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type SourceFile struct {
	Path string
}

var sourceExts = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdx":      {},
}

// DiscoverSource lists content files under root sorted by path, so content
// order is stable between builds.
func DiscoverSource(root string) ([]SourceFile, error) {
	var out []SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := sourceExts[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			out = append(out, SourceFile{Path: path})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}
