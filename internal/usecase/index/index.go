// Package index builds and holds the in-memory term statistics the ranker
// scores against. An Index is immutable once built: reloads construct a
// complete replacement and swap it atomically, so queries never observe a
// partially built index.
package index

import (
	"math"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/token"
)

// Field identifies one weighted endpoint field.
type Field int

const (
	// FieldPath is the URL template.
	FieldPath Field = iota
	// FieldName is the endpoint display name.
	FieldName
	// FieldDescription is the free-text description.
	FieldDescription
	// FieldParameters covers parameter names.
	FieldParameters
	// FieldTags covers grouping labels.
	FieldTags

	numFields
)

// Weights holds the per-field scoring weights. The exact values are tuning
// parameters, not correctness invariants; the invariant is the ordering
// path > description > parameters > tags and that a fixed configuration
// scores deterministically.
type Weights struct {
	Path        float64
	Name        float64
	Description float64
	Parameters  float64
	Tags        float64
}

// DefaultWeights returns the documented default field weights.
func DefaultWeights() Weights {
	return Weights{
		Path:        3.0,
		Name:        2.0,
		Description: 1.5,
		Parameters:  1.0,
		Tags:        0.5,
	}
}

// For returns the weight of a field.
func (w Weights) For(f Field) float64 {
	switch f {
	case FieldPath:
		return w.Path
	case FieldName:
		return w.Name
	case FieldDescription:
		return w.Description
	case FieldParameters:
		return w.Parameters
	case FieldTags:
		return w.Tags
	default:
		return 0
	}
}

// docStats holds the derived per-record term statistics.
type docStats struct {
	fields [numFields]map[string]int
	terms  map[string]struct{}
	// pathNorm is the normalized path rendered as a single string, used for
	// the whole-query-in-path bonus.
	pathNorm string
}

// Index is the searchable representation of one corpus snapshot.
type Index struct {
	corpus  domain.Corpus
	docs    []docStats
	df      map[string]int
	weights Weights
}

// Build derives the full Index from a corpus. Building twice from an
// identical corpus yields identical scores for any fixed query.
func Build(c domain.Corpus, w Weights) *Index {
	ix := &Index{
		corpus:  c,
		docs:    make([]docStats, len(c.Endpoints)),
		df:      make(map[string]int),
		weights: w,
	}

	for i := range c.Endpoints {
		ep := &c.Endpoints[i]

		stats := docStats{terms: make(map[string]struct{})}
		stats.fields[FieldPath] = countTerms(token.Normalize(ep.Path))
		stats.fields[FieldName] = countTerms(token.Normalize(ep.Name))
		stats.fields[FieldDescription] = countTerms(token.Normalize(ep.Description))

		var paramNames []string
		for _, p := range ep.Parameters {
			paramNames = append(paramNames, token.Normalize(p.Name)...)
		}
		stats.fields[FieldParameters] = countTerms(paramNames)

		var tagTerms []string
		for _, t := range ep.Tags {
			tagTerms = append(tagTerms, token.Normalize(t)...)
		}
		stats.fields[FieldTags] = countTerms(tagTerms)

		for f := Field(0); f < numFields; f++ {
			for term := range stats.fields[f] {
				stats.terms[term] = struct{}{}
			}
		}
		stats.pathNorm = token.Join(token.Normalize(ep.Path))

		for term := range stats.terms {
			ix.df[term]++
		}
		ix.docs[i] = stats
	}

	return ix
}

func countTerms(terms []string) map[string]int {
	freq := make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	return freq
}

// Corpus returns the corpus snapshot this index was built from.
func (ix *Index) Corpus() *domain.Corpus { return &ix.corpus }

// Len returns the number of indexed records.
func (ix *Index) Len() int { return len(ix.docs) }

// Weights returns the field weights the index was built with.
func (ix *Index) Weights() Weights { return ix.weights }

// IDF returns log(1 + N/df) for a term. Terms absent from the corpus
// contribute zero instead of erroring.
func (ix *Index) IDF(term string) float64 {
	df := ix.df[term]
	if df == 0 {
		return 0
	}
	return math.Log(1 + float64(len(ix.docs))/float64(df))
}

// DocFreq returns the number of records containing the term in any field.
func (ix *Index) DocFreq(term string) int { return ix.df[term] }

// WeightedTF returns the term's frequency in the record aggregated across
// all fields, each scaled by its field weight.
func (ix *Index) WeightedTF(doc int, term string) float64 {
	var sum float64
	for f := Field(0); f < numFields; f++ {
		if tf := ix.docs[doc].fields[f][term]; tf > 0 {
			sum += ix.weights.For(f) * float64(tf)
		}
	}
	return sum
}

// TermFreq returns how often a term occurs in one field of one record.
func (ix *Index) TermFreq(doc int, f Field, term string) int {
	return ix.docs[doc].fields[f][term]
}

// HasTerm reports whether the record contains the term in any field.
func (ix *Index) HasTerm(doc int, term string) bool {
	_, ok := ix.docs[doc].terms[term]
	return ok
}

// PathNorm returns the record's normalized path string.
func (ix *Index) PathNorm(doc int) string { return ix.docs[doc].pathNorm }
