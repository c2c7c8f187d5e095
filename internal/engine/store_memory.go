package engine

import (
	"sync"

	"github.com/example/wanokuni/pkg/models"
)

// MemoryStore is an in-process ProgressStore. It backs anonymous
// sessions that have no database configured, and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[models.ProgressKey]models.ProgressRecord
	level   int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[models.ProgressKey]models.ProgressRecord)}
}

func (s *MemoryStore) Get(key models.ProgressKey) (*models.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *MemoryStore) Set(record *models.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Key] = *record
	return nil
}

func (s *MemoryStore) GetAll() (map[models.ProgressKey]*models.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.ProgressKey]*models.ProgressRecord, len(s.records))
	for key, rec := range s.records {
		copied := rec
		out[key] = &copied
	}
	return out, nil
}

func (s *MemoryStore) CurrentLevel() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level, nil
}

func (s *MemoryStore) SetCurrentLevel(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	return nil
}
