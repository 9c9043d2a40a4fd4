package anscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type memStore struct {
	data    map[string]string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotCached
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type countingGen struct {
	answer string
	err    error
	calls  int
}

func (g *countingGen) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	return g.answer, g.err
}

func TestCachedGenerator_MissThenHit(t *testing.T) {
	store := newMemStore()
	gen := &countingGen{answer: "use POST /tickets"}
	cached := New(gen, store, "test-model", time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		answer, err := cached.Generate(context.Background(), "how to create a ticket", "ctx")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if answer != "use POST /tickets" {
			t.Fatalf("answer = %q", answer)
		}
	}
	if gen.calls != 1 {
		t.Errorf("inner generator called %d times, want 1", gen.calls)
	}
	if store.lastTTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", store.lastTTL)
	}
}

func TestCachedGenerator_KeyVariesWithInputs(t *testing.T) {
	store := newMemStore()
	gen := &countingGen{answer: "a"}
	cached := New(gen, store, "test-model", time.Hour, zap.NewNop())

	_, _ = cached.Generate(context.Background(), "q1", "ctx")
	_, _ = cached.Generate(context.Background(), "q2", "ctx")
	_, _ = cached.Generate(context.Background(), "q1", "other ctx")

	if gen.calls != 3 {
		t.Errorf("expected 3 distinct cache keys, inner called %d times", gen.calls)
	}
	if len(store.data) != 3 {
		t.Errorf("expected 3 cached entries, got %d", len(store.data))
	}
}

func TestCachedGenerator_StoreFailuresFallThrough(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	gen := &countingGen{answer: "a"}
	cached := New(gen, store, "test-model", time.Hour, zap.NewNop())

	answer, err := cached.Generate(context.Background(), "q", "ctx")
	if err != nil {
		t.Fatalf("cache failure must not fail generation: %v", err)
	}
	if answer != "a" || gen.calls != 1 {
		t.Errorf("inner generator not used on cache failure")
	}
}

func TestCachedGenerator_InnerErrorNotCached(t *testing.T) {
	store := newMemStore()
	gen := &countingGen{err: errors.New("upstream down")}
	cached := New(gen, store, "test-model", time.Hour, zap.NewNop())

	if _, err := cached.Generate(context.Background(), "q", "ctx"); err == nil {
		t.Fatal("expected error from inner generator")
	}
	if len(store.data) != 0 {
		t.Errorf("failed generations must not be cached")
	}
}
