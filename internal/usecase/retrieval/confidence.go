package retrieval

import (
	"strings"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// apiTerms are question words that signal an API-documentation intent.
var apiTerms = []string{
	"api", "endpoint", "method", "curl", "request",
	"ticket", "create", "get", "list", "update", "delete",
}

// confidence estimates how trustworthy the retrieval outcome is, in
// [0.1, 1.0]. It combines the squashed top score, the query's specificity,
// and the richness of the assembled context. Deterministic for a fixed
// query and index.
func confidence(q domain.Query, docContext string, results []domain.RankedResult) float64 {
	if len(results) == 0 {
		return 0.1
	}

	top := results[0].Score
	matchScore := top / (top + 5)

	c := 0.6*matchScore + 0.2*queryQuality(q.Raw) + 0.2*contextRichness(docContext)
	return clamp(c, 0.1, 1.0)
}

func queryQuality(raw string) float64 {
	lower := strings.ToLower(raw)

	hits := 0
	for _, term := range apiTerms {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	termScore := float64(hits) / float64(len(apiTerms))

	var specificity float64
	switch words := len(strings.Fields(lower)); {
	case words >= 4:
		specificity = 0.8
	case words >= 2:
		specificity = 0.5
	default:
		specificity = 0.2
	}

	return clamp(0.6*specificity+0.4*termScore, 0, 1)
}

func contextRichness(docContext string) float64 {
	if docContext == "" || docContext == domain.NoMatchContext {
		return 0
	}

	nonEmpty := 0
	for _, line := range strings.Split(docContext, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}

	var richness float64
	switch {
	case nonEmpty >= 10:
		richness = 0.4
	case nonEmpty >= 5:
		richness = 0.2
	default:
		richness = 0.1
	}

	if strings.Contains(docContext, "Parameters:") {
		richness += 0.3
	}
	if strings.Contains(docContext, "cURL Example:") {
		richness += 0.2
	}
	if strings.Count(docContext, "Endpoint:") > 1 {
		richness += 0.1
	}

	return clamp(richness, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
