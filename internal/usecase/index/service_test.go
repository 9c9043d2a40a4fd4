package index

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

type stubLoader struct {
	mu     sync.Mutex
	corpus domain.Corpus
	err    error
	calls  int
}

func (s *stubLoader) LoadFile(_ string) (domain.Corpus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return domain.Corpus{}, s.err
	}
	return s.corpus, nil
}

func corpusOfSize(n int) domain.Corpus {
	c := domain.Corpus{}
	for i := 0; i < n; i++ {
		c.Endpoints = append(c.Endpoints, domain.Endpoint{
			Method: "GET",
			Path:   "/things/" + string(rune('a'+i)),
		})
	}
	return c
}

func TestService_CurrentBeforeBuild(t *testing.T) {
	svc := NewService(&stubLoader{}, "corpus.json", DefaultWeights(), zap.NewNop())
	if _, ok := svc.Current(); ok {
		t.Fatal("Current should report no index before the first build")
	}
}

func TestService_SetCorpusPublishes(t *testing.T) {
	svc := NewService(&stubLoader{}, "corpus.json", DefaultWeights(), zap.NewNop())

	stats := svc.SetCorpus(corpusOfSize(2))
	if stats.Endpoints != 2 {
		t.Errorf("stats.Endpoints = %d, want 2", stats.Endpoints)
	}

	ix, ok := svc.Current()
	if !ok || ix.Len() != 2 {
		t.Fatalf("Current after SetCorpus: ok=%v len=%d", ok, ix.Len())
	}
}

func TestService_ReloadSwaps(t *testing.T) {
	loader := &stubLoader{corpus: corpusOfSize(3)}
	svc := NewService(loader, "corpus.json", DefaultWeights(), zap.NewNop())
	svc.SetCorpus(corpusOfSize(2))

	stats, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Endpoints != 3 {
		t.Errorf("stats.Endpoints = %d, want 3", stats.Endpoints)
	}

	ix, _ := svc.Current()
	if ix.Len() != 3 {
		t.Errorf("index not swapped: len = %d, want 3", ix.Len())
	}
}

func TestService_ReloadFailureKeepsPreviousIndex(t *testing.T) {
	loader := &stubLoader{err: domain.ErrEmptyCorpus}
	svc := NewService(loader, "corpus.json", DefaultWeights(), zap.NewNop())
	svc.SetCorpus(corpusOfSize(2))
	before, _ := svc.Current()

	_, err := svc.Reload(context.Background())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}

	after, ok := svc.Current()
	if !ok || after != before {
		t.Error("failed reload must keep the previous index")
	}
}

func TestService_SwapIsAtomic(t *testing.T) {
	loader := &stubLoader{corpus: corpusOfSize(3)}
	svc := NewService(loader, "corpus.json", DefaultWeights(), zap.NewNop())
	svc.SetCorpus(corpusOfSize(2))

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				ix, ok := svc.Current()
				if !ok {
					t.Error("index disappeared during reload")
					return
				}
				// Readers must observe a complete snapshot: every indexed
				// record is consistent with the corpus it references.
				if n := ix.Len(); n != 2 && n != 3 {
					t.Errorf("observed partial index of size %d", n)
					return
				}
				if ix.Len() != ix.Corpus().Len() {
					t.Error("index and corpus sizes diverged")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if _, err := svc.Reload(context.Background()); err != nil {
			t.Errorf("reload: %v", err)
		}
	}
	close(done)
	wg.Wait()
}
