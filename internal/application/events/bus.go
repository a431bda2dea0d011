// Package events contiene el bus en proceso que avisa a las vistas cuando cambia la tienda activa.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Multitienda-api/internal/observability/metrics"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// Motivos de cambio de tienda activa.
const (
	ReasonSwitch = "switch" // el usuario eligió otra tienda
	ReasonDelete = "delete" // se borró la tienda activa y se activó un reemplazo
	ReasonRepair = "repair" // el puntero de sesión apuntaba a una tienda inexistente
)

// ShopChanged evento publicado después de persistir el cambio de tienda activa.
type ShopChanged struct {
	UserID         string
	ShopID         string
	PreviousShopID string
	Reason         string
	At             time.Time
}

// Handler suscriptor del bus. Un error o panic se registra y no detiene a los demás.
type Handler func(ctx context.Context, ev ShopChanged) error

type subscription struct {
	id      uint64
	handler Handler
}

// Bus registro de suscriptores con despacho secuencial en orden de suscripción.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
	log    *logger.Logger
}

// NewBus crea un bus sin suscriptores.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{log: log.Component("events")}
}

// Subscribe registra h y devuelve la función para darlo de baja.
// La baja es idempotente y solo afecta a esta suscripción.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			// copia nueva: Publish puede estar recorriendo el slice anterior
			subs := make([]subscription, 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			b.subs = append(subs, b.subs[i+1:]...)
			return
		}
	}
}

// Len número de suscriptores activos.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish ejecuta cada suscriptor de forma secuencial y espera a que termine.
// Devuelve cuántos fallaron; los fallos ya quedan registrados en el log.
func (b *Bus) Publish(ctx context.Context, ev ShopChanged) int {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	failed := 0
	for _, s := range subs {
		if err := b.dispatch(ctx, s.handler, ev); err != nil {
			failed++
			metrics.ObserveBusHandlerFailure()
			b.log.Error().
				Err(err).
				Uint64("subscription", s.id).
				Str("user_id", ev.UserID).
				Str("shop_id", ev.ShopID).
				Msg("suscriptor de cambio de tienda falló")
		}
	}
	return failed
}

func (b *Bus) dispatch(ctx context.Context, h Handler, ev ShopChanged) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, ev)
}
