package retrieval

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/usecase/index"
)

// IndexProvider hands out the current index snapshot. Implemented by the
// index service; queries never touch the handle directly.
type IndexProvider interface {
	Current() (*index.Index, bool)
}

// Generator composes an answer from the query and the assembled context.
// It is the only collaborator that may block on I/O; retrieval itself is
// synchronous CPU work.
type Generator interface {
	Generate(ctx context.Context, query, docContext string) (string, error)
}
