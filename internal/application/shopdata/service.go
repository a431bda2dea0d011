// Package shopdata mantiene en caché la vista resumida de la tienda activa de cada usuario
// y la recarga cuando el bus avisa de un cambio de tienda.
package shopdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/pkg/cache"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// DefaultTTL vida de un snapshot en caché.
const DefaultTTL = 2 * time.Minute

// Snapshot vista resumida de una tienda: últimas ventas, totales y stock.
type Snapshot struct {
	ShopID      string
	RecentSales []entity.Sale
	Daily       entity.SalesTotals
	Weekly      entity.WeeklySummary
	Products    []entity.Product
	LowStock    []entity.Product
	LoadedAt    time.Time
}

// Subscriber parte del bus que usa el servicio.
type Subscriber interface {
	Subscribe(h events.Handler) (unsubscribe func())
}

// Service caché de snapshots por usuario y tienda.
type Service struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	cache    *cache.Cache[*Snapshot]
	ttl      time.Duration
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time

	// gen versión por tienda; cada invalidación la incrementa. Una carga iniciada con una
	// versión anterior no se guarda en caché.
	mu  sync.Mutex
	gen map[string]uint64
}

// NewService construye el servicio. ttl <= 0 usa DefaultTTL; loc nil usa la zona local.
func NewService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	log *logger.Logger,
	loc *time.Location,
	ttl time.Duration,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		products: products,
		sales:    sales,
		cache:    cache.New[*Snapshot](),
		ttl:      ttl,
		log:      log.Component("shopdata"),
		loc:      loc,
		now:      time.Now,
		gen:      map[string]uint64{},
	}
}

// WithClock reemplaza el reloj de la caché y de los cortes de día (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.cache.WithClock(now)
	return s
}

// Attach suscribe el servicio al bus. Devuelve la función de baja.
func (s *Service) Attach(bus Subscriber) (detach func()) {
	return bus.Subscribe(s.onShopChanged)
}

// onShopChanged descarta el snapshot de la tienda anterior y precarga el de la nueva.
func (s *Service) onShopChanged(ctx context.Context, ev events.ShopChanged) error {
	s.mu.Lock()
	if ev.PreviousShopID != "" {
		s.gen[ev.PreviousShopID]++
		s.cache.Delete(key(ev.PreviousShopID, ev.UserID))
	}
	s.gen[ev.ShopID]++
	s.cache.Delete(key(ev.ShopID, ev.UserID))
	s.mu.Unlock()
	if _, err := s.Get(ctx, ev.UserID, ev.ShopID); err != nil {
		return fmt.Errorf("shopdata: recargar tienda %s: %w", ev.ShopID, err)
	}
	return nil
}

// Get devuelve el snapshot de shopID para userID, cargándolo si no está en caché.
// Un snapshot en caché de otra tienda nunca se entrega.
func (s *Service) Get(ctx context.Context, userID, shopID string) (*Snapshot, error) {
	k := key(shopID, userID)
	if snap, ok := s.cache.Get(k); ok && snap.ShopID == shopID {
		return snap, nil
	}

	s.mu.Lock()
	version := s.gen[shopID]
	s.mu.Unlock()

	snap, err := s.load(ctx, shopID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[shopID] != version {
		// hubo una escritura durante la carga: se entrega pero no se cachea
		s.log.Debug().Str("user_id", userID).Str("shop_id", shopID).Msg("snapshot invalidado durante la carga")
		return snap, nil
	}
	s.cache.Set(k, snap, s.ttl)
	s.log.Debug().Str("user_id", userID).Str("shop_id", shopID).Msg("snapshot cargado")
	return snap, nil
}

// InvalidateShop descarta los snapshots de shopID (escrituras de productos o ventas).
func (s *Service) InvalidateShop(shopID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[shopID]++
	s.cache.Invalidate(shopID + "|")
}

func (s *Service) load(ctx context.Context, shopID string) (*Snapshot, error) {
	now := s.now().In(s.loc)

	recent, err := s.sales.GetRecent(ctx, shopID, repository.DefaultRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("shopdata: ventas recientes: %w", err)
	}
	daily, err := s.sales.DailyTotal(ctx, shopID, now)
	if err != nil {
		return nil, fmt.Errorf("shopdata: total diario: %w", err)
	}
	weekly, err := s.sales.WeeklyTotal(ctx, shopID, now)
	if err != nil {
		return nil, fmt.Errorf("shopdata: total semanal: %w", err)
	}
	products, err := s.products.GetAll(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("shopdata: productos: %w", err)
	}

	low := []entity.Product{}
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return &Snapshot{
		ShopID:      shopID,
		RecentSales: recent,
		Daily:       daily,
		Weekly:      weekly,
		Products:    products,
		LowStock:    low,
		LoadedAt:    now.UTC(),
	}, nil
}

func key(shopID, userID string) string { return shopID + "|" + userID }
