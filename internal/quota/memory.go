package quota

import (
	"context"
	"sync"
)

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func (s *MemoryStore) Increment(ctx context.Context, key string, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.counts[key]
	if n >= limit {
		return n, ErrQuotaExceeded
	}
	n++
	s.counts[key] = n
	return n, nil
}

func (s *MemoryStore) Decrement(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.counts[key]; n > 1 {
		s.counts[key] = n - 1
	} else {
		delete(s.counts, key)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *MemoryStore) Raise(ctx context.Context, key string, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.counts[key] {
		s.counts[key] = n
	}
	return nil
}
