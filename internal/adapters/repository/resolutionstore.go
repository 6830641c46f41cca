package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/pilon/fantasygrid/internal/domain/model"
)

// ResolutionStore implements Resolutions with a mutex-guarded map. Import
// volumes are small (one entry per roster slot per sync) so sharding is
// not worth the complexity here.
type ResolutionStore struct {
	mu   sync.RWMutex
	byID map[string]model.Resolution
}

// NewResolutionStore creates an in-memory resolution store.
func NewResolutionStore(_ context.Context) *ResolutionStore {
	return &ResolutionStore{
		byID: make(map[string]model.Resolution),
	}
}

// Put stores a resolution, replacing any previous one for the same id.
func (s *ResolutionStore) Put(_ context.Context, res model.Resolution) error {
	if res.ImportID == "" {
		return fmt.Errorf("missing import id: %w", ErrInvalidInput)
	}
	s.mu.Lock()
	s.byID[res.ImportID] = res
	s.mu.Unlock()
	return nil
}

// Get returns the resolution for an import id.
func (s *ResolutionStore) Get(_ context.Context, importID string) (model.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.byID[importID]
	if !ok {
		return model.Resolution{}, fmt.Errorf("import %q: %w", importID, ErrNotFound)
	}
	return res, nil
}

// Count returns the number of stored resolutions.
func (s *ResolutionStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
