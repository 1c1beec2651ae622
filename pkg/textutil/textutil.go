package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// SameName reports whether two names are equal after normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// Suggestion is a candidate name and its similarity in [0, 1].
type Suggestion struct {
	Name       string
	Similarity float64
}

// Closest returns the candidate most similar to `name` by Jaro-Winkler, ok is
// false when there are no candidates or nothing passes `threshold`.
func Closest(name string, candidates []string, threshold float64) (Suggestion, bool) {
	target := NormalizeName(name)

	var best Suggestion
	for _, c := range candidates {
		similarity := matchr.JaroWinkler(target, NormalizeName(c), false)
		if similarity > best.Similarity {
			best = Suggestion{Name: c, Similarity: similarity}
		}
	}
	if best.Name == "" || best.Similarity < threshold {
		return Suggestion{}, false
	}
	return best, true
}
