package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.SessionStore = (*RedisStore)(nil)

// RedisStore guarda la tienda activa en Redis: una clave por usuario, sin expiración.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient crea el cliente desde una URL redis:// y verifica la conexión.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisStore construye el almacén sobre un cliente existente.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + "active_shop:" + userID
}

// SetActive fija la tienda activa del usuario.
func (s *RedisStore) SetActive(ctx context.Context, userID, shopID string) error {
	if err := s.client.Set(ctx, s.key(userID), shopID, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", domain.ErrStorage, err)
	}
	return nil
}

// GetActive devuelve la tienda activa del usuario, si hay.
func (s *RedisStore) GetActive(ctx context.Context, userID string) (string, bool, error) {
	shopID, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: redis get: %w", domain.ErrStorage, err)
	}
	return shopID, shopID != "", nil
}

// Clear borra la entrada del usuario.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", domain.ErrStorage, err)
	}
	return nil
}
