package domain

// RankedResult is a single retrieval hit. Position is the record's index in
// the canonical corpus, never a copy of the record, so ranking output cannot
// diverge from the corpus it was computed against.
type RankedResult struct {
	Position     int
	Score        float64
	MatchedTerms []string
}

// RetrievalResponse is the immutable outcome of one retrieval: the top-K
// ranked results and the bounded context rendered from them.
type RetrievalResponse struct {
	Results []RankedResult
	Context string
}

// NoMatchContext is returned as the context when no endpoint scored above
// zero. It is a normal outcome, not an error.
const NoMatchContext = "No relevant endpoint found in the API documentation."
