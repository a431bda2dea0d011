package sqlstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, shopId, product, itemsSold, total, date`

// SaleRepo implementación del puerto SaleRepository. Toda consulta filtra por shopId.
//
// Los agregados recorren las filas del rango y suman en Go con decimal: SQLite guarda los importes
// como TEXT y SUM() los convertiría a REAL.
type SaleRepo struct {
	q   Querier
	now func() time.Time
}

// NewSaleRepository construye el repositorio.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q, now: time.Now}
}

// GetAll ventas de la tienda, más recientes primero.
func (r *SaleRepo) GetAll(ctx context.Context, shopID string) ([]entity.Sale, error) {
	return r.list(ctx, "list sales", `WHERE shopId = ? ORDER BY id DESC`, shopID)
}

// GetRecent últimas limit ventas (por defecto 20).
func (r *SaleRepo) GetRecent(ctx context.Context, shopID string, limit int) ([]entity.Sale, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentLimit
	}
	return r.list(ctx, "recent sales", `WHERE shopId = ? ORDER BY id DESC LIMIT ?`, shopID, limit)
}

// Insert valida y registra una venta. No modifica el stock del producto.
func (r *SaleRepo) Insert(ctx context.Context, shopID string, in entity.SaleInput) (*entity.Sale, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = r.now()
	}
	s := &entity.Sale{
		ShopID:    shopID,
		Product:   in.Product,
		ItemsSold: in.ItemsSold,
		Total:     in.Total,
		Date:      utc(date),
	}
	query := r.q.Rebind(`
		INSERT INTO sales (shopId, product, itemsSold, total, date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, query, s.ShopID, s.Product, s.ItemsSold, s.Total, s.Date).Scan(&s.ID); err != nil {
		return nil, storageErr("insert sale", err)
	}
	return s, nil
}

// Update corrige solo los campos presentes. Patch vacío o id de otra tienda: no-op.
func (r *SaleRepo) Update(ctx context.Context, shopID string, id int64, patch entity.SalePatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Normalize(); err != nil {
		return err
	}

	var (
		sets []string
		args []interface{}
	)
	if patch.Product != nil {
		sets, args = append(sets, "product = ?"), append(args, *patch.Product)
	}
	if patch.ItemsSold != nil {
		sets, args = append(sets, "itemsSold = ?"), append(args, *patch.ItemsSold)
	}
	if patch.Total != nil {
		sets, args = append(sets, "total = ?"), append(args, *patch.Total)
	}
	if patch.Date != nil {
		sets, args = append(sets, "date = ?"), append(args, utc(*patch.Date))
	}
	args = append(args, id, shopID)

	query := r.q.Rebind(`UPDATE sales SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND shopId = ?`)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return storageErr("update sale", err)
	}
	return nil
}

// Delete borra la venta de la tienda; idempotente.
func (r *SaleRepo) Delete(ctx context.Context, shopID string, id int64) error {
	query := r.q.Rebind(`DELETE FROM sales WHERE id = ? AND shopId = ?`)
	if _, err := r.q.ExecContext(ctx, query, id, shopID); err != nil {
		return storageErr("delete sale", err)
	}
	return nil
}

// ── Agregados ─────────────────────────────────────────────────────────────────

// DailyTotal ventas del día de now.
func (r *SaleRepo) DailyTotal(ctx context.Context, shopID string, now time.Time) (entity.SalesTotals, error) {
	from, to := entity.DayRange(now)
	return r.TotalsBetween(ctx, shopID, from, to)
}

// WeeklyTotal ventas de los últimos 7 días más hoy, con ticket medio por ítem.
func (r *SaleRepo) WeeklyTotal(ctx context.Context, shopID string, now time.Time) (entity.WeeklySummary, error) {
	from, to := entity.WeekRange(now)
	totals, err := r.TotalsBetween(ctx, shopID, from, to)
	if err != nil {
		return entity.WeeklySummary{SalesTotals: zeroTotals(), AvgTicket: decimal.Zero}, err
	}
	avg := decimal.Zero
	if totals.Items > 0 {
		avg = totals.Total.Div(decimal.NewFromInt(totals.Items))
	}
	return entity.WeeklySummary{SalesTotals: totals, AvgTicket: avg}, nil
}

// TotalsBetween suma total, ítems y número de ventas en [from, to).
func (r *SaleRepo) TotalsBetween(ctx context.Context, shopID string, from, to time.Time) (entity.SalesTotals, error) {
	out := zeroTotals()
	err := r.scanRange(ctx, shopID, from, to, func(s entity.Sale) {
		out.Total = out.Total.Add(s.Total)
		out.Items += s.ItemsSold
		out.Count++
	})
	if err != nil {
		return zeroTotals(), err
	}
	return out, nil
}

// AverageTicket promedio de total por venta con total > 0.
func (r *SaleRepo) AverageTicket(ctx context.Context, shopID string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	var n int64
	err := r.scanRange(ctx, shopID, from, to, func(s entity.Sale) {
		if s.Total.IsPositive() {
			sum = sum.Add(s.Total)
			n++
		}
	})
	if err != nil || n == 0 {
		return decimal.Zero, err
	}
	return sum.Div(decimal.NewFromInt(n)), nil
}

// TopProducts agrupa por nombre de producto y ordena por cantidad vendida.
// Empates: mayor facturación primero, luego nombre.
func (r *SaleRepo) TopProducts(ctx context.Context, shopID string, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	byName := map[string]*entity.TopProduct{}
	err := r.scanRange(ctx, shopID, from, to, func(s entity.Sale) {
		tp, ok := byName[s.Product]
		if !ok {
			tp = &entity.TopProduct{Name: s.Product, Revenue: decimal.Zero}
			byName[s.Product] = tp
		}
		tp.TotalSold += s.ItemsSold
		tp.Revenue = tp.Revenue.Add(s.Total)
	})
	if err != nil {
		return []entity.TopProduct{}, err
	}

	list := make([]entity.TopProduct, 0, len(byName))
	for _, tp := range byName {
		list = append(list, *tp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].TotalSold != list[j].TotalSold {
			return list[i].TotalSold > list[j].TotalSold
		}
		if c := list[i].Revenue.Cmp(list[j].Revenue); c != 0 {
			return c > 0
		}
		return list[i].Name < list[j].Name
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// DailySeries un punto por día de [from, to) en la zona de from.
func (r *SaleRepo) DailySeries(ctx context.Context, shopID string, from, to time.Time) ([]entity.DailySales, error) {
	loc := from.Location()
	series := []entity.DailySales{}
	index := map[string]int{}
	for d := entity.StartOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(series)
		series = append(series, entity.DailySales{Date: key, Sales: decimal.Zero})
	}

	err := r.scanRange(ctx, shopID, from, to, func(s entity.Sale) {
		if i, ok := index[s.Date.In(loc).Format("2006-01-02")]; ok {
			series[i].Sales = series[i].Sales.Add(s.Total)
		}
	})
	if err != nil {
		return []entity.DailySales{}, err
	}
	return series, nil
}

// scanRange recorre las ventas de la tienda en [from, to). fn no debe tocar la base:
// con SQLite hay una sola conexión y las filas siguen abiertas.
func (r *SaleRepo) scanRange(ctx context.Context, shopID string, from, to time.Time, fn func(entity.Sale)) error {
	query := r.q.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE shopId = ? AND date >= ? AND date < ?`)
	rows, err := r.q.QueryxContext(ctx, query, shopID, utc(from), utc(to))
	if err != nil {
		return storageErr("sales range", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Product, &s.ItemsSold, &s.Total, &s.Date); err != nil {
			return storageErr("scan sale", err)
		}
		fn(s)
	}
	if err := rows.Err(); err != nil {
		return storageErr("sales range", err)
	}
	return nil
}

func (r *SaleRepo) list(ctx context.Context, op, where string, args ...interface{}) ([]entity.Sale, error) {
	query := r.q.Rebind(`SELECT ` + saleColumns + ` FROM sales ` + where)
	rows, err := r.q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	list := []entity.Sale{}
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Product, &s.ItemsSold, &s.Total, &s.Date); err != nil {
			return nil, storageErr("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return list, nil
}

func zeroTotals() entity.SalesTotals {
	return entity.SalesTotals{Total: decimal.Zero}
}
