package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps values in process memory. It is the default backend and
// the one used by tests.
type MemoryStore struct {
	mu            sync.RWMutex
	data          map[string][]byte
	maxValueBytes int
	maxTotalBytes int
	total         int
}

type MemoryOption func(*MemoryStore)

// WithMaxValueBytes caps the size of a single value.
func WithMaxValueBytes(n int) MemoryOption {
	return func(s *MemoryStore) { s.maxValueBytes = n }
}

// WithMaxTotalBytes caps the sum of all stored values.
func WithMaxTotalBytes(n int) MemoryOption {
	return func(s *MemoryStore) { s.maxTotalBytes = n }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSize(key, value, s.maxValueBytes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.total - len(s.data[key]) + len(value)
	if s.maxTotalBytes > 0 && next > s.maxTotalBytes {
		return fmt.Errorf("%w: total would be %d bytes, limit %d", ErrQuotaExceeded, next, s.maxTotalBytes)
	}

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	s.total = next
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total -= len(s.data[key])
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
