package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_ComputeRenderHash(t *testing.T) {
	a := Fingerprint{ContentHash: "c", ThemeHash: "t", ConfigHash: "g", RendererHash: "r"}
	b := a
	a.ComputeRenderHash()
	b.ComputeRenderHash()
	assert.Len(t, a.RenderHash, 64)
	assert.Equal(t, a.RenderHash, b.RenderHash)

	b.ThemeHash = "t2"
	b.ComputeRenderHash()
	assert.NotEqual(t, a.RenderHash, b.RenderHash)
}

func TestHashStrings_Boundaries(t *testing.T) {
	assert.NotEqual(t, HashStrings("ab", "c"), HashStrings("a", "bc"))
	assert.Equal(t, HashStrings("x"), HashStrings("x"))
}

func TestHashFiles_OrderIndependent(t *testing.T) {
	one := HashFiles(map[string][]byte{"a.tmpl": []byte("A"), "b.tmpl": []byte("B")})
	two := HashFiles(map[string][]byte{"b.tmpl": []byte("B"), "a.tmpl": []byte("A")})
	assert.Equal(t, one, two)

	changed := HashFiles(map[string][]byte{"a.tmpl": []byte("A"), "b.tmpl": []byte("B!")})
	assert.NotEqual(t, one, changed)
}
