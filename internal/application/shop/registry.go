// Package shop contiene el registro de tiendas: alta, listado, renombrado, borrado y cambio de
// tienda activa con control de propiedad.
package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/internal/observability/metrics"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/Multitienda-api/internal/application/shop")

// Registry dueño de las tiendas y del puntero de tienda activa.
//
// La tienda activa se guarda en SessionStore y aquí se valida en cada uso: el almacén de sesión
// no sabe si la tienda sigue existiendo ni de quién es.
type Registry struct {
	shops   repository.ShopRepository
	tx      TxRunner
	session repository.SessionStore
	bus     Publisher
	log     *logger.Logger
	now     func() time.Time
}

// NewRegistry construye el registro.
func NewRegistry(
	shops repository.ShopRepository,
	tx TxRunner,
	session repository.SessionStore,
	bus Publisher,
	log *logger.Logger,
) *Registry {
	return &Registry{
		shops:   shops,
		tx:      tx,
		session: session,
		bus:     bus,
		log:     log.Component("shop_registry"),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// CreateShop crea una tienda para ownerID. La primera tienda del dueño queda activa.
// Alta, conteo y activación van en la misma transacción: si no se puede activar la primera
// tienda, tampoco se crea.
func (r *Registry) CreateShop(ctx context.Context, name, ownerID string) (*entity.Shop, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: se requiere un usuario autenticado", domain.ErrUnauthorized)
	}
	name, err := entity.NormalizeShopName(name)
	if err != nil {
		return nil, err
	}

	s := &entity.Shop{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: r.now().UTC(),
	}
	var first bool
	err = r.tx.RunShops(ctx, func(shops repository.ShopRepository) error {
		if err := shops.Create(ctx, s); err != nil {
			return err
		}
		count, err := shops.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if first = count == 1; first {
			if err := r.session.SetActive(ctx, ownerID, s.ID); err != nil {
				return fmt.Errorf("activar primera tienda: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("shop.CreateShop: %w", err)
	}
	if first {
		r.log.Info().Str("user_id", ownerID).Str("shop_id", s.ID).Msg("primera tienda creada y activada")
	}
	return s, nil
}

// ListShops tiendas del dueño, más recientes primero. Vacío si no tiene ninguna.
func (r *Registry) ListShops(ctx context.Context, ownerID string) ([]entity.Shop, error) {
	list, err := r.shops.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("shop.ListShops: %w", err)
	}
	return list, nil
}

// SwitchActive activa shopID para ownerID y notifica a los suscriptores antes de retornar.
// Activar la tienda que ya está activa vuelve a notificar (refresco forzado).
func (r *Registry) SwitchActive(ctx context.Context, shopID, ownerID string) (*entity.Shop, error) {
	ctx, span := tracer.Start(ctx, "shop.SwitchActive")
	defer span.End()
	span.SetAttributes(attribute.String("shop.id", shopID))

	s, err := r.owned(ctx, r.shops, shopID, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	previous, _, err := r.session.GetActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("shop.SwitchActive: %w", err)
	}
	if err := r.session.SetActive(ctx, ownerID, s.ID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("shop.SwitchActive: %w", err)
	}

	r.notify(ctx, ownerID, s.ID, previous, events.ReasonSwitch)
	return s, nil
}

// UpdateShop renombra una tienda del dueño.
func (r *Registry) UpdateShop(ctx context.Context, shopID, ownerID, name string) (*entity.Shop, error) {
	name, err := entity.NormalizeShopName(name)
	if err != nil {
		return nil, err
	}
	s, err := r.owned(ctx, r.shops, shopID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := r.shops.UpdateName(ctx, s.ID, name); err != nil {
		return nil, fmt.Errorf("shop.UpdateShop: %w", err)
	}
	s.Name = name
	return s, nil
}

// DeleteShop borra una tienda del dueño junto con sus productos y ventas.
// No se puede borrar la única tienda. Si era la activa, en la misma transacción se mueve el
// puntero de sesión a la tienda más reciente que queda, antes del borrado. Si el borrado o el
// commit fallan, el puntero vuelve a su valor anterior.
func (r *Registry) DeleteShop(ctx context.Context, shopID, ownerID string) error {
	var (
		replacement string
		previous    string
		hadPrevious bool
		moved       bool
	)
	err := r.tx.RunShops(ctx, func(shops repository.ShopRepository) error {
		if _, err := r.owned(ctx, shops, shopID, ownerID); err != nil {
			return err
		}
		list, err := shops.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if len(list) <= 1 {
			return fmt.Errorf("%w: el usuario debe conservar al menos una tienda", domain.ErrInvariantViolation)
		}
		for _, s := range list {
			if s.ID != shopID {
				replacement = s.ID // la lista viene de más reciente a más antigua
				break
			}
		}

		previous, hadPrevious, err = r.session.GetActive(ctx, ownerID)
		if err != nil {
			return err
		}
		if !hadPrevious || previous == shopID {
			if err := r.session.SetActive(ctx, ownerID, replacement); err != nil {
				return err
			}
			moved = true
		}
		return shops.Delete(ctx, shopID)
	})
	if err != nil {
		if moved {
			r.restoreActive(ctx, ownerID, previous, hadPrevious, replacement)
		}
		return fmt.Errorf("shop.DeleteShop: %w", err)
	}

	r.log.Info().Str("user_id", ownerID).Str("shop_id", shopID).Bool("was_active", moved).Msg("tienda eliminada")
	if moved {
		r.notify(ctx, ownerID, replacement, shopID, events.ReasonDelete)
	}
	return nil
}

// restoreActive deshace el cambio de puntero de un borrado fallido. Si tampoco se puede
// restaurar, el puntero quedó en replacement y se avisa a los suscriptores.
func (r *Registry) restoreActive(ctx context.Context, ownerID, previous string, hadPrevious bool, replacement string) {
	var err error
	if hadPrevious {
		err = r.session.SetActive(ctx, ownerID, previous)
	} else {
		err = r.session.Clear(ctx, ownerID)
	}
	if err != nil {
		r.log.Error().Err(err).Str("user_id", ownerID).Str("shop_id", replacement).Msg("no se pudo restaurar la tienda activa tras un borrado fallido")
		r.notify(ctx, ownerID, replacement, previous, events.ReasonDelete)
	}
}

// ActiveShop resuelve y valida la tienda activa del dueño.
// Un puntero obsoleto (tienda borrada o ajena) se repara activando la tienda más reciente;
// sin tiendas se limpia la sesión y se devuelve ErrNotFound.
func (r *Registry) ActiveShop(ctx context.Context, ownerID string) (*entity.Shop, error) {
	shopID, ok, err := r.session.GetActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("shop.ActiveShop: %w", err)
	}
	if ok {
		s, err := r.shops.GetByID(ctx, shopID)
		if err != nil {
			return nil, fmt.Errorf("shop.ActiveShop: %w", err)
		}
		if s != nil && s.OwnerID == ownerID {
			return s, nil
		}
		r.log.Warn().Str("user_id", ownerID).Str("shop_id", shopID).Msg("tienda activa inválida, reparando sesión")
	}

	list, err := r.shops.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("shop.ActiveShop: %w", err)
	}
	if len(list) == 0 {
		if ok {
			if err := r.session.Clear(ctx, ownerID); err != nil {
				return nil, fmt.Errorf("shop.ActiveShop: %w", err)
			}
		}
		return nil, fmt.Errorf("%w: el usuario no tiene tienda activa", domain.ErrNotFound)
	}

	s := list[0]
	if err := r.session.SetActive(ctx, ownerID, s.ID); err != nil {
		return nil, fmt.Errorf("shop.ActiveShop: %w", err)
	}
	r.notify(ctx, ownerID, s.ID, shopID, events.ReasonRepair)
	return &s, nil
}

// Logout borra el puntero de tienda activa del usuario.
func (r *Registry) Logout(ctx context.Context, ownerID string) error {
	if err := r.session.Clear(ctx, ownerID); err != nil {
		return fmt.Errorf("shop.Logout: %w", err)
	}
	return nil
}

// owned carga la tienda y verifica el dueño.
func (r *Registry) owned(ctx context.Context, shops repository.ShopRepository, shopID, ownerID string) (*entity.Shop, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: se requiere un usuario autenticado", domain.ErrUnauthorized)
	}
	s, err := shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, shopID)
	}
	if s.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: la tienda no pertenece al usuario", domain.ErrUnauthorized)
	}
	return s, nil
}

func (r *Registry) notify(ctx context.Context, userID, shopID, previous, reason string) {
	metrics.ObserveShopSwitch(reason)
	trace.SpanFromContext(ctx).AddEvent("shop.changed", trace.WithAttributes(
		attribute.String("shop.id", shopID),
		attribute.String("shop.previous_id", previous),
		attribute.String("reason", reason),
	))
	failed := r.bus.Publish(ctx, events.ShopChanged{
		UserID:         userID,
		ShopID:         shopID,
		PreviousShopID: previous,
		Reason:         reason,
		At:             r.now().UTC(),
	})
	if failed > 0 {
		r.log.Warn().Str("user_id", userID).Str("shop_id", shopID).Int("failed", failed).Msg("suscriptores con error al cambiar de tienda")
	}
}
