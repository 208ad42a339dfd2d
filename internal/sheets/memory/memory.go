package memory

import (
	"context"
	"sync"

	"paydash/internal/sheets"
)

var _ sheets.TabWriter = (*Store)(nil)

// Store keeps tab contents in memory, like a spreadsheet nobody else edits.
type Store struct {
	mu   sync.Mutex
	tabs map[string][][]any
}

func New() *Store {
	return &Store{tabs: map[string][][]any{}}
}

func (s *Store) ReplaceTab(_ context.Context, tab string, values [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]any, len(values))
	for i, row := range values {
		cp[i] = append([]any(nil), row...)
	}
	s.tabs[tab] = cp
	return nil
}

// Tab returns a copy of the tab contents and whether it was ever written.
func (s *Store) Tab(tab string) ([][]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[tab]
	if !ok {
		return nil, false
	}
	cp := make([][]any, len(rows))
	for i, row := range rows {
		cp[i] = append([]any(nil), row...)
	}
	return cp, true
}
