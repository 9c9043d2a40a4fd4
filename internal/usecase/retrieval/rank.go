package retrieval

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/token"
	"github.com/kailas-cloud/docqa/internal/usecase/index"
)

// Bonuses are the fixed score additions applied on top of the tf-idf base.
type Bonuses struct {
	// Path is added when the whole normalized query occurs inside the
	// normalized path.
	Path float64
	// Coverage is added when a single record contains every query term.
	Coverage float64
}

// DefaultBonuses returns the documented default bonus magnitudes.
func DefaultBonuses() Bonuses {
	return Bonuses{Path: 3.0, Coverage: 1.5}
}

// rank scores every record sharing at least one term with the query and
// returns the top k by descending score. Ties keep corpus insertion order.
// Records with a zero final score are excluded. Pure CPU, no I/O.
func rank(ix *index.Index, q domain.Query, k int, bonuses Bonuses) []domain.RankedResult {
	if q.IsEmpty() || k <= 0 {
		return nil
	}

	queryNorm := token.Join(q.Terms)
	unique := uniqueTerms(q.Terms)

	var results []domain.RankedResult
	for doc := 0; doc < ix.Len(); doc++ {
		var score float64
		var matched []string
		for _, term := range unique {
			idf := ix.IDF(term)
			if idf == 0 {
				continue
			}
			// Duplicated query terms contribute once per occurrence.
			score += float64(termCount(q.Terms, term)) * ix.WeightedTF(doc, term) * idf
			if ix.HasTerm(doc, term) {
				matched = append(matched, term)
			}
		}
		if score <= 0 {
			continue
		}

		if strings.Contains(ix.PathNorm(doc), queryNorm) {
			score += bonuses.Path
		}
		if len(matched) == len(unique) {
			score += bonuses.Coverage
		}

		sort.Strings(matched)
		results = append(results, domain.RankedResult{
			Position:     doc,
			Score:        score,
			MatchedTerms: matched,
		})
	}

	// Stable: equal scores keep ascending corpus position.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func termCount(terms []string, term string) int {
	n := 0
	for _, t := range terms {
		if t == term {
			n++
		}
	}
	return n
}
