package memory

import (
	"context"
	"sync"

	"paydash/internal/blob"
)

var _ blob.Store = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func New() *Store {
	return &Store{values: map[string]string{}}
}

// NewWith returns a store pre-populated with the given values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes returns how many Set calls succeeded.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
