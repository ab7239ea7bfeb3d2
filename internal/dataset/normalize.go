package dataset

import "strings"

// CanonicalName reduces a column name to its canonical form: lowercased with
// spaces, hyphens, and underscores removed ("Media Type" -> "mediatype").
// It is idempotent. Distinct raw names may collide after normalization;
// column lookup is only defined when they don't, which is the caller's
// responsibility.
func CanonicalName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeHeader canonicalizes every column name, preserving length and
// order.
func NormalizeHeader(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = CanonicalName(n)
	}
	return out
}
