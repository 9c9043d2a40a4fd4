package index

import "github.com/kailas-cloud/docqa/internal/domain"

// CorpusLoader reads the corpus file produced by the scraper.
type CorpusLoader interface {
	LoadFile(path string) (domain.Corpus, error)
}
