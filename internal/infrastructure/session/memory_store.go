package session

import (
	"context"
	"sync"

	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

// MemoryStore almacén en memoria (tests y ejecuciones efímeras).
type MemoryStore struct {
	mu     sync.RWMutex
	active map[string]string
}

// NewMemoryStore crea un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{active: map[string]string{}}
}

func (s *MemoryStore) SetActive(_ context.Context, userID, shopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[userID] = shopID
	return nil
}

func (s *MemoryStore) GetActive(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shopID, ok := s.active[userID]
	return shopID, ok, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
	return nil
}
