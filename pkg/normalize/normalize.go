// Package normalize derives canonical comparison keys from package names.
//
// Registries disagree on casing, accents, and separators ("Flask" vs
// "flask", "café" vs "cafe", "scikit_learn" vs "scikit-learn"). A Key is a
// reduced form used only for equality checks between names coming from
// different sources; it is never shown to users.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dotless/dotted I variants collapse to a plain "i". Unicode case folding
// alone does not unify these across locales (Turkish "İ" lowercases to
// "i" plus a combining dot, "ı" stays dotless).
var turkishI = strings.NewReplacer("ı", "i", "İ", "i")

// strip removes all combining marks after canonical decomposition, so
// accented characters reduce to their base letter ("é" -> "e").
var strip = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Key reduces a package name to its canonical comparison form.
//
// The reduction lowercases the input, collapses the dotted/dotless "I"
// variants, strips accents via canonical decomposition, and finally drops
// every rune that is not an ASCII letter or digit. Key is total and
// idempotent: it never fails and Key(Key(s)) == Key(s) for all s.
func Key(name string) string {
	s := turkishI.Replace(strings.ToLower(name))
	if out, _, err := transform.String(strip, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Match finds a candidate whose Key equals the target's Key and returns it
// in its original casing. When several candidates share a key, the first
// occurrence wins. Sources use this to recover the registry's canonical
// spelling after an exact lookup missed.
func Match(target string, candidates []string) (string, bool) {
	byKey := make(map[string]string, len(candidates))
	for _, c := range candidates {
		k := Key(c)
		if _, seen := byKey[k]; !seen {
			byKey[k] = c
		}
	}
	m, ok := byKey[Key(target)]
	return m, ok
}
