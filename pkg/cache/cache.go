// Package cache implementa una caché en memoria con TTL por entrada.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache caché en memoria con TTL, segura para uso concurrente.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	now   func() time.Time
}

// New crea una caché vacía.
func New[V any]() *Cache[V] {
	return &Cache[V]{items: map[string]entry[V]{}, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.now = now
	return c
}

// Set guarda value bajo key durante ttl.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Get devuelve el valor si existe y no ha expirado. Las entradas expiradas se descartan.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if ok && !c.now().After(e.expiresAt) {
		return e.value, true
	}
	if ok {
		c.evict(key, e.expiresAt)
	}
	var zero V
	return zero, false
}

// evict borra key solo si sigue siendo la entrada vencida que se leyó; un Set posterior se respeta.
func (c *Cache[V]) evict(key string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.items[key]; ok && cur.expiresAt.Equal(expiresAt) {
		delete(c.items, key)
	}
}

// Delete elimina una clave.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Invalidate elimina todas las claves con el prefijo indicado.
func (c *Cache[V]) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Len número de entradas (incluye expiradas aún no purgadas).
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
