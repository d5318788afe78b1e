// Package names normalizes and matches player names between injury
// reports and rotation records. Reports spell names loosely ("K.
// Knueppel", "Gary Trent Jr.", "Luka Dončić"), so matching has to
// survive diacritics, generational suffixes and initials.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var suffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
}

// Normalize lowers the name, strips diacritics and periods, and drops a
// trailing generational suffix.
func Normalize(name string) string {
	clean, _, err := transform.String(deaccent, name)
	if err != nil {
		clean = name
	}
	clean = strings.ToLower(strings.TrimSpace(clean))
	clean = strings.ReplaceAll(clean, ".", "")

	tokens := strings.Fields(clean)
	if len(tokens) > 1 && suffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Match reports whether two player names refer to the same player after
// normalization. Beyond exact equality, a single-letter first token is
// treated as an initial: "k knueppel" matches "kyle knueppel" because the
// last names agree and the initial is consistent.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	ta, tb := strings.Fields(na), strings.Fields(nb)
	if len(ta) < 2 || len(tb) < 2 {
		return false
	}
	if ta[len(ta)-1] != tb[len(tb)-1] {
		return false
	}
	fa, fb := ta[0], tb[0]
	switch {
	case len(fa) == 1:
		return strings.HasPrefix(fb, fa)
	case len(fb) == 1:
		return strings.HasPrefix(fa, fb)
	}
	return false
}

// MatchTeam reports whether an injury report's team fragment refers to
// the given team, tolerating partial names ("Trail Blazers" vs "Portland
// Trail Blazers") in either direction.
func MatchTeam(fragment, team string) bool {
	f := strings.ToLower(strings.TrimSpace(fragment))
	t := strings.ToLower(strings.TrimSpace(team))
	if f == "" || t == "" {
		return false
	}
	return f == t || strings.Contains(t, f) || strings.Contains(f, t)
}
