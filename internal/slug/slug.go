// Package slug turns display text into URL and anchor identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type runeKind int

const (
	kindOther runeKind = iota
	kindLower
	kindUpper
	kindDigit
)

// Make returns the lowercase, hyphen separated form of s. Words split on
// punctuation and spaces, on camel case humps and between letters and
// digits, except for English ordinals ("10th"). Diacritics are folded
// ("Café" becomes "cafe", "Straße" becomes "strasse").
func Make(s string) string {
	ws := words(fold(s))
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "-")
}

// latinLetters are the Latin-1 and Latin Extended-A letters that carry no
// combining mark under NFD.
var latinLetters = map[rune]string{
	'Æ': "Ae", 'æ': "ae", 'Ð': "D", 'ð': "d", 'Ø': "O", 'ø': "o",
	'Þ': "Th", 'þ': "th", 'ß': "ss", 'Đ': "D", 'đ': "d", 'Ħ': "H",
	'ħ': "h", 'ı': "i", 'Ĳ': "IJ", 'ĳ': "ij", 'ĸ': "k", 'Ŀ': "L",
	'ŀ': "l", 'Ł': "L", 'ł': "l", 'ŉ': "'n", 'Ŋ': "N", 'ŋ': "n",
	'Œ': "Oe", 'œ': "oe", 'ſ': "s",
}

func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := latinLetters[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, b.String())
	if err != nil {
		return b.String()
	}
	return out
}

func kind(r rune) runeKind {
	switch {
	case unicode.IsDigit(r):
		return kindDigit
	case unicode.IsUpper(r):
		return kindUpper
	case unicode.IsLetter(r):
		// uncased scripts behave like lowercase
		return kindLower
	default:
		return kindOther
	}
}

func words(s string) []string {
	rs := []rune(s)
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		k := kind(r)
		if k == kindOther {
			if r == '\'' || r == '’' {
				continue
			}
			flush()
			continue
		}
		if k == kindDigit && (i == 0 || kind(rs[i-1]) != kindDigit) {
			if n := ordinalLen(rs[i:]); n > 0 {
				flush()
				out = append(out, string(rs[i:i+n]))
				i += n - 1
				continue
			}
		}
		if len(cur) > 0 {
			prev := kind(cur[len(cur)-1])
			switch {
			case (prev == kindDigit) != (k == kindDigit):
				flush()
			case prev == kindLower && k == kindUpper:
				flush()
			case prev == kindUpper && k == kindUpper && i+1 < len(rs) && kind(rs[i+1]) == kindLower:
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// ordinalLen reports the length of an ordinal such as "1st", "22nd" or
// "10TH" at the start of rs, or 0. The suffix follows the last digit, so
// "11th" and "12th" are not ordinals. A lowercase suffix may be followed by
// an uppercase letter and an uppercase suffix by a lowercase one.
func ordinalLen(rs []rune) int {
	j := 0
	for j < len(rs) && isASCIIDigit(rs[j]) {
		j++
	}
	if j == 0 || j+2 > len(rs) {
		return 0
	}
	var want string
	switch rs[j-1] {
	case '1':
		want = "st"
	case '2':
		want = "nd"
	case '3':
		want = "rd"
	default:
		want = "th"
	}
	suffix := string(rs[j : j+2])
	upper := suffix == strings.ToUpper(want)
	if suffix != want && !upper {
		return 0
	}
	n := j + 2
	if n == len(rs) || !isASCIIAlnum(rs[n]) {
		return n
	}
	next := rs[n]
	switch {
	case !upper && next >= 'A' && next <= 'Z':
		return n
	case upper && next >= 'a' && next <= 'z':
		return n
	}
	return 0
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIAlnum(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
