// Package roster holds the loaded character collection and answers table
// queries over it for the HTML view, the JSON API and the MCP tools.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/source"
	"github.com/HerbHall/roster/pkg/models"
)

// Sentinel errors returned by Store and Service.
var (
	ErrNotFound  = errors.New("character not found")
	ErrNotLoaded = errors.New("characters not loaded")
)

// Store is the immutable, once-populated character collection.
type Store struct {
	once sync.Once

	mu      sync.RWMutex
	done    bool
	records []models.Character
	byID    map[int]int
	err     error
}

// NewStore returns an empty Store. Records reports ErrNotLoaded until
// Populate or Load has run.
func NewStore() *Store {
	return &Store{}
}

// Populate sets the collection, or the load failure, exactly once. Later
// calls are ignored.
func (s *Store) Populate(records []models.Character, err error) {
	s.once.Do(func() { s.populate(records, err) })
}

// Load fetches from src and populates the store. A failure is recorded and
// returned; it is not retried, and a populated store never fetches again.
func (s *Store) Load(ctx context.Context, src source.Source, logger *zap.Logger) error {
	s.once.Do(func() {
		records, err := source.Load(ctx, src, logger)
		s.populate(records, err)
	})
	return s.Err()
}

func (s *Store) populate(records []models.Character, err error) {
	byID := make(map[int]int, len(records))
	for i := range records {
		byID[records[i].ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.err = err
	if err == nil {
		s.records = records
		s.byID = byID
	}
}

// Err returns the recorded load failure wrapped in ErrNotLoaded, ErrNotLoaded
// alone before any load, or nil once records are available.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case !s.done:
		return ErrNotLoaded
	case s.err != nil:
		return fmt.Errorf("%w: %v", ErrNotLoaded, s.err)
	default:
		return nil
	}
}

// Records returns the collection in source order. The slice is shared and
// must not be modified.
func (s *Store) Records() ([]models.Character, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, nil
}

// Get returns the character with the given id.
func (s *Store) Get(id int) (models.Character, error) {
	if err := s.Err(); err != nil {
		return models.Character{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.Character{}, fmt.Errorf("character %d: %w", id, ErrNotFound)
	}
	return s.records[i], nil
}

// Len returns the number of loaded records, zero when not loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
