// Package token provides the shared text normalization used both when
// indexing corpus fields and when analyzing queries. The two sides must
// never diverge, otherwise index-time and query-time terms stop being
// comparable, so this is the only tokenizer in the codebase.
package token

import (
	"strings"
	"unicode"
)

// stopWords are dropped during normalization. The list is intentionally
// small: question scaffolding ("how do i ...") and bare articles carry no
// signal for endpoint retrieval.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "be": {},
	"how": {}, "do": {}, "does": {}, "can": {}, "you": {}, "my": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {},
	"what": {}, "i": {},
}

// Normalize lower-cases text, splits it on non-alphanumeric boundaries, and
// drops tokens shorter than two characters or in the stop-word list.
// Duplicates are kept in order. No stemming is applied: matching is exact
// on normalized tokens.
func Normalize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// Join renders terms as a single space-separated string. Used for the
// whole-query-in-path comparison, where both sides are normalized first.
func Join(terms []string) string {
	return strings.Join(terms, " ")
}
