package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Fingerprint identifies one rendered output. When every input hash is
// unchanged the output can be reused.
type Fingerprint struct {
	ContentHash  string
	ThemeHash    string
	ConfigHash   string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	for _, part := range []string{f.ContentHash, f.ThemeHash, f.ConfigHash, f.RendererHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashStrings hashes parts in order. Each part is terminated so ("ab", "c")
// and ("a", "bc") differ.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashFiles hashes a set of named blobs independent of map order.
func HashFiles(files map[string][]byte) string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
		h.Write([]byte(HashBytes(files[n])))
	}
	return hex.EncodeToString(h.Sum(nil))
}
