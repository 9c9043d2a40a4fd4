package retrieval

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// assemble renders the ranked records into a bounded context string.
// Records are rendered in rank order; a record whose rendering would push
// the context past maxChars is dropped whole, never truncated mid-record,
// so every included record stays well-formed for the generator.
func assemble(corpus *domain.Corpus, results []domain.RankedResult, maxChars int) domain.RetrievalResponse {
	if len(results) == 0 {
		return domain.RetrievalResponse{
			Results: []domain.RankedResult{},
			Context: domain.NoMatchContext,
		}
	}

	var b strings.Builder
	for _, r := range results {
		rendered := renderEndpoint(&corpus.Endpoints[r.Position], r.Score)
		if maxChars > 0 && b.Len()+len(rendered) > maxChars {
			continue
		}
		b.WriteString(rendered)
	}

	ctx := b.String()
	if ctx == "" {
		// Every record overflowed the budget on its own.
		ctx = domain.NoMatchContext
	}

	return domain.RetrievalResponse{Results: results, Context: ctx}
}

func renderEndpoint(ep *domain.Endpoint, score float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[Relevance: %.2f] Endpoint: %s (%s)\n", score, ep.DisplayName(), ep.Method)
	fmt.Fprintf(&b, "Description: %s\n", ep.Description)
	fmt.Fprintf(&b, "Path: %s\n", ep.Path)

	if len(ep.Parameters) > 0 {
		b.WriteString("Parameters:\n")
		for _, p := range ep.Parameters {
			fmt.Fprintf(&b, "  - %s (%s, %s)", p.Name, p.Type, p.Location)
			if p.Required {
				b.WriteString(" [Required]")
			}
			fmt.Fprintf(&b, ": %s\n", p.Description)
		}
	}

	if ep.Example != "" {
		fmt.Fprintf(&b, "cURL Example:\n%s\n", ep.Example)
	}

	b.WriteString("\n---\n\n")
	return b.String()
}
