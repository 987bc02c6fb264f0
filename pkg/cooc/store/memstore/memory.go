package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*run
}

type run struct {
	data       store.Run
	words      map[string]struct{}
	associates map[string][]store.Neighbor
	synonyms   map[string][]store.Neighbor
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]*run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a copy of r.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; exists {
		return fmt.Errorf("save run %s: already stored: %w", r.ID, internalerr.ErrInvalidInput)
	}

	stored := &run{
		data:       copyRun(r),
		words:      make(map[string]struct{}, len(r.Words)),
		associates: make(map[string][]store.Neighbor),
		synonyms:   make(map[string][]store.Neighbor),
	}
	for _, w := range r.Words {
		stored.words[w.Token] = struct{}{}
	}
	for _, p := range r.Associates {
		stored.associates[p.A] = append(stored.associates[p.A], store.Neighbor{Token: p.B, Weight: p.Weight})
	}
	for _, p := range r.Synonyms {
		stored.synonyms[p.A] = append(stored.synonyms[p.A], store.Neighbor{Token: p.B, Weight: p.Weight})
	}
	for _, ns := range stored.associates {
		store.SortNeighbors(ns)
	}
	for _, ns := range stored.synonyms {
		store.SortNeighbors(ns)
	}

	s.runs[r.ID] = stored
	return nil
}

// GetRun returns a copy of a stored run.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r.data), nil
}

// LatestRun returns the run with the greatest ID.
func (s *Store) LatestRun(ctx context.Context) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *run
	for id, r := range s.runs {
		if latest == nil || id > latest.data.ID {
			latest = r
		}
	}
	if latest == nil {
		return store.Run{}, fmt.Errorf("latest run: %w", internalerr.ErrNotFound)
	}
	return copyRun(latest.data), nil
}

// Associates implements store.Store.
func (s *Store) Associates(ctx context.Context, runID, word string) ([]store.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.lookup(runID, word)
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.associates[word]), nil
}

// Synonyms implements store.Store.
func (s *Store) Synonyms(ctx context.Context, runID, word string, minOverlap float64) ([]store.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.lookup(runID, word)
	if err != nil {
		return nil, err
	}
	var out []store.Neighbor
	for _, n := range r.synonyms[word] {
		if n.Weight > minOverlap {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) lookup(runID, word string) (*run, error) {
	r, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	if _, ok := r.words[word]; !ok {
		return nil, fmt.Errorf("run %s: word %q: %w", runID, word, internalerr.ErrNotFound)
	}
	return r, nil
}

func copyRun(r store.Run) store.Run {
	r.Words = slices.Clone(r.Words)
	r.Associates = slices.Clone(r.Associates)
	r.Synonyms = slices.Clone(r.Synonyms)
	return r
}
