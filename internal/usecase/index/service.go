package index

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// ReloadStats summarizes one successful corpus (re)load.
type ReloadStats struct {
	Endpoints int
	Skipped   int
	ScrapedAt time.Time
}

// Service owns the swappable index handle. Queries read the current index
// lock-free; Reload builds a complete new index and publishes it atomically,
// keeping the previous one on any failure. The handle is passed into query
// handlers explicitly instead of living in package-level state.
type Service struct {
	loader  CorpusLoader
	path    string
	weights Weights
	logger  *zap.Logger

	current atomic.Pointer[Index]
	reloads singleflight.Group
}

// NewService creates an index service reading the corpus from path.
func NewService(loader CorpusLoader, path string, weights Weights, logger *zap.Logger) *Service {
	return &Service{
		loader:  loader,
		path:    path,
		weights: weights,
		logger:  logger,
	}
}

// Current returns the active index, or false when none has been built yet.
func (s *Service) Current() (*Index, bool) {
	ix := s.current.Load()
	return ix, ix != nil
}

// Ready reports whether a usable index is available for queries.
func (s *Service) Ready() bool {
	ix := s.current.Load()
	return ix != nil && ix.Len() > 0
}

// SetCorpus builds and publishes an index from an already-loaded corpus.
// Used at startup for the seed corpus.
func (s *Service) SetCorpus(c domain.Corpus) ReloadStats {
	return s.publish(c)
}

// Reload re-reads the corpus file, rebuilds the index, and swaps it in.
// Concurrent reloads collapse into a single load; in-flight queries keep
// seeing the previous index until the swap and never a partial one.
func (s *Service) Reload(ctx context.Context) (ReloadStats, error) {
	v, err, _ := s.reloads.Do("reload", func() (any, error) {
		c, err := s.loader.LoadFile(s.path)
		if err != nil {
			metrics.CorpusReloadsTotal.WithLabelValues("error").Inc()
			s.logger.Error("Corpus reload failed, keeping previous index", zap.Error(err))
			return ReloadStats{}, fmt.Errorf("reload corpus: %w", err)
		}
		return s.publish(c), nil
	})
	if err != nil {
		return ReloadStats{}, err
	}
	return v.(ReloadStats), nil
}

func (s *Service) publish(c domain.Corpus) ReloadStats {
	ix := Build(c, s.weights)
	s.current.Store(ix)

	metrics.CorpusReloadsTotal.WithLabelValues("success").Inc()
	metrics.CorpusEndpoints.Set(float64(c.Len()))

	s.logger.Info("Index built",
		zap.Int("endpoints", c.Len()),
		zap.Int("skipped", c.Skipped),
		zap.Time("scraped_at", c.ScrapedAt),
	)

	return ReloadStats{
		Endpoints: c.Len(),
		Skipped:   c.Skipped,
		ScrapedAt: c.ScrapedAt,
	}
}
