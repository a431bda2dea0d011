// Package session implementa el almacén de la tienda activa (repository.SessionStore).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.SessionStore = (*FileStore)(nil)

// FileStore guarda {userID: shopID} en un archivo JSON. Cada escritura reemplaza el archivo
// de forma atómica (temporal + rename) para que un corte no deje el documento a medias.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore crea el almacén; el archivo se crea en la primera escritura.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// SetActive fija la tienda activa del usuario.
func (s *FileStore) SetActive(_ context.Context, userID, shopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if data[userID] == shopID {
		return nil
	}
	data[userID] = shopID
	return s.save(data)
}

// GetActive devuelve la tienda activa del usuario, si hay.
func (s *FileStore) GetActive(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	shopID, ok := data[userID]
	return shopID, ok && shopID != "", nil
}

// Clear borra la entrada del usuario.
func (s *FileStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[userID]; !ok {
		return nil
	}
	delete(data, userID)
	return s.save(data)
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: leer sesión: %w", domain.ErrStorage, err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: sesión corrupta en %s: %w", domain.ErrStorage, s.path, err)
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: serializar sesión: %w", domain.ErrStorage, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: crear directorio de sesión: %w", domain.ErrStorage, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: escribir sesión: %w", domain.ErrStorage, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: escribir sesión: %w", domain.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync sesión: %w", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cerrar sesión: %w", domain.ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: reemplazar sesión: %w", domain.ErrStorage, err)
	}
	return nil
}
